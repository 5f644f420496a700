// Package loadgen generates synthetic resolve/claim traffic against a
// running cardpark instance.
package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int
	Failures      int
	StatusClasses map[string]int
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Run fires requests until the duration elapses. The mixed profile
// resolves mostly and claims occasionally; resolve and claim profiles
// stick to one operation.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("loadgen: base url is required")
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	profile := normalizeProfile(cfg.Profile)

	rng := rand.New(rand.NewSource(cfg.Seed))
	var rngMu sync.Mutex

	client := &http.Client{Timeout: 10 * time.Second}
	base := strings.TrimRight(cfg.BaseURL, "/")

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()

	res := &Result{StatusClasses: make(map[string]int)}
	var resMu sync.Mutex
	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup

loop:
	for {
		select {
		case <-runCtx.Done():
			break loop
		case <-ticker.C:
		}
		select {
		case sem <- struct{}{}:
		case <-runCtx.Done():
			break loop
		}

		rngMu.Lock()
		code := randomCode(rng)
		claim := profile == "claim" || (profile == "mixed" && rng.Intn(10) == 0)
		rngMu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			status, err := fire(runCtx, client, base, code, claim)
			resMu.Lock()
			res.TotalRequests++
			if err != nil {
				res.Failures++
			} else {
				res.StatusClasses[classifyStatusClass(status)]++
			}
			resMu.Unlock()
		}()
	}
	wg.Wait()
	return res, nil
}

func fire(ctx context.Context, client *http.Client, base, code string, claim bool) (int, error) {
	var req *http.Request
	var err error
	if claim {
		payload, _ := json.Marshal(map[string]any{
			"first_name":   "Load",
			"last_name":    "Gen",
			"email":        fmt.Sprintf("loadgen+%s@example.com", strings.ToLower(code)),
			"tos_accepted": true,
		})
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/v1/codes/"+code+"/claim", bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/v1/codes/"+code, nil)
	}
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func randomCode(rng *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteByte(codeAlphabet[rng.Intn(len(codeAlphabet))])
	}
	return b.String()
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}

func normalizeProfile(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "resolve", "claim", "mixed":
		return v
	case "":
		return "mixed"
	default:
		return "mixed"
	}
}
