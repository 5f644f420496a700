package loadgen

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClassifyStatusClass(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		302: "3xx",
		404: "4xx",
		500: "5xx",
		100: "other",
	}
	for status, want := range cases {
		if got := classifyStatusClass(status); got != want {
			t.Fatalf("classifyStatusClass(%d)=%q want %q", status, got, want)
		}
	}
}

func TestNormalizeProfile(t *testing.T) {
	if got := normalizeProfile(""); got != "mixed" {
		t.Fatalf("normalizeProfile empty=%q want mixed", got)
	}
	if got := normalizeProfile("  CLAIM  "); got != "claim" {
		t.Fatalf("normalizeProfile claim=%q want claim", got)
	}
	if got := normalizeProfile("bogus"); got != "mixed" {
		t.Fatalf("normalizeProfile bogus=%q want mixed", got)
	}
}

func TestRandomCodeShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		code := randomCode(rng)
		if len(code) != 5 {
			t.Fatalf("randomCode length=%d want 5", len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("randomCode produced %q outside alphabet", r)
			}
		}
	}
}

func TestRunRequiresBaseURL(t *testing.T) {
	if _, err := Run(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestRunCountsStatusClasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := Run(context.Background(), Config{
		BaseURL:     srv.URL,
		Profile:     "resolve",
		Duration:    200 * time.Millisecond,
		RPS:         50,
		Concurrency: 4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TotalRequests == 0 {
		t.Fatal("expected at least one request")
	}
	if res.Failures != 0 {
		t.Fatalf("unexpected failures: %d", res.Failures)
	}
	if res.StatusClasses["4xx"] != res.TotalRequests {
		t.Fatalf("expected all requests in 4xx, got %v", res.StatusClasses)
	}
}
