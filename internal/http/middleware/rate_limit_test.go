package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocalHybridLimiterDeniesPastLimit(t *testing.T) {
	limiter := NewLocalHybridLimiter()
	policy := RateLimitPolicy{SustainedLimit: 3, SustainedWindow: time.Minute}

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(context.Background(), "1.2.3.4", policy)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	d, err := limiter.Allow(context.Background(), "1.2.3.4", policy)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("fourth request should be denied")
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("denied decision needs a retry hint, got %v", d.RetryAfter)
	}
}

func TestLocalHybridLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewLocalHybridLimiter()
	policy := RateLimitPolicy{SustainedLimit: 1, SustainedWindow: time.Minute}

	if d, _ := limiter.Allow(context.Background(), "1.1.1.1", policy); !d.Allowed {
		t.Fatal("first key should be allowed")
	}
	if d, _ := limiter.Allow(context.Background(), "2.2.2.2", policy); !d.Allowed {
		t.Fatal("second key must not share the first key's budget")
	}
	if d, _ := limiter.Allow(context.Background(), "1.1.1.1", policy); d.Allowed {
		t.Fatal("first key should now be exhausted")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, "api")
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
		if rr.Header().Get("X-RateLimit-Limit") != "2" {
			t.Fatalf("limit header = %q", rr.Header().Get("X-RateLimit-Limit"))
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("429 must carry Retry-After")
	}
}

func TestClientIPKeyStripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:61234"
	if got := clientIPKey(req); got != "192.168.1.7" {
		t.Fatalf("clientIPKey = %q", got)
	}
}

func TestNormalizePolicyDefaults(t *testing.T) {
	p := normalizePolicy(RateLimitPolicy{})
	if p.SustainedLimit != 1 || p.SustainedWindow != time.Minute {
		t.Fatalf("defaults = %+v", p)
	}
	if p.BurstCapacity < p.SustainedLimit || p.BurstRefillPerSec <= 0 {
		t.Fatalf("burst defaults = %+v", p)
	}
}
