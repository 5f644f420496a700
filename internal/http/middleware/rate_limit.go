package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"cardpark/internal/http/response"
	"cardpark/internal/observability"
)

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Remaining  int
	ResetAt    time.Time
}

type RateLimitPolicy struct {
	SustainedLimit    int
	SustainedWindow   time.Duration
	BurstCapacity     int
	BurstRefillPerSec float64
}

type Limiter interface {
	Allow(ctx context.Context, key string, policy RateLimitPolicy) (Decision, error)
}

// localHybridLimiter combines a token bucket (burst) with a sliding
// window (sustained rate), keyed per client IP.
type localHybridLimiter struct {
	mu      sync.Mutex
	store   map[string]*hybridState
	cleanup time.Time
}

type hybridState struct {
	tokens     float64
	lastRefill time.Time
	hits       []time.Time
}

type RateLimiter struct {
	limiter Limiter
	policy  RateLimitPolicy
	scope   string
}

func NewLocalHybridLimiter() Limiter {
	return &localHybridLimiter{
		store:   make(map[string]*hybridState),
		cleanup: time.Now().Add(time.Minute),
	}
}

func NewRateLimiter(limit int, window time.Duration, scope string) *RateLimiter {
	if scope == "" {
		scope = "api"
	}
	return &RateLimiter{
		limiter: NewLocalHybridLimiter(),
		policy:  normalizePolicy(RateLimitPolicy{SustainedLimit: limit, SustainedWindow: window}),
		scope:   scope,
	}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIPKey(r)
			decision, err := rl.limiter.Allow(r.Context(), key, rl.policy)
			if err != nil {
				// Local limiter cannot fail today; fail closed if a
				// backend-driven one ever does.
				observability.RecordRateLimitDecision(r.Context(), rl.scope, "backend_error")
				writeRateLimitHeaders(w.Header(), rl.policy.SustainedLimit, 0, time.Now().Add(rl.policy.SustainedWindow))
				w.Header().Set("Retry-After", retryAfterHeader(rl.policy.SustainedWindow))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			writeRateLimitHeaders(w.Header(), rl.policy.SustainedLimit, decision.Remaining, decision.ResetAt)
			if !decision.Allowed {
				observability.RecordRateLimitDecision(r.Context(), rl.scope, "deny")
				w.Header().Set("Retry-After", retryAfterHeader(decision.RetryAfter))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			observability.RecordRateLimitDecision(r.Context(), rl.scope, "allow")
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *localHybridLimiter) Allow(_ context.Context, key string, policy RateLimitPolicy) (Decision, error) {
	policy = normalizePolicy(policy)
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.After(rl.cleanup) {
		for k, v := range rl.store {
			if len(v.hits) == 0 && now.Sub(v.lastRefill) > 2*policy.SustainedWindow {
				delete(rl.store, k)
			}
		}
		rl.cleanup = now.Add(policy.SustainedWindow)
	}

	state, ok := rl.store[key]
	if !ok {
		state = &hybridState{tokens: float64(policy.BurstCapacity), lastRefill: now}
		rl.store[key] = state
	}
	if now.After(state.lastRefill) {
		elapsed := now.Sub(state.lastRefill).Seconds()
		state.tokens = min(float64(policy.BurstCapacity), state.tokens+(elapsed*policy.BurstRefillPerSec))
		state.lastRefill = now
	}

	cutoff := now.Add(-policy.SustainedWindow)
	pruned := state.hits[:0]
	for _, hit := range state.hits {
		if hit.After(cutoff) {
			pruned = append(pruned, hit)
		}
	}
	state.hits = pruned

	sustainedRemaining := policy.SustainedLimit - len(state.hits)
	bucketRetry := time.Duration(0)
	if state.tokens < 1 {
		need := 1 - state.tokens
		bucketRetry = time.Duration(math.Ceil((need / policy.BurstRefillPerSec) * float64(time.Second)))
	}
	sustainedRetry := time.Duration(0)
	if sustainedRemaining <= 0 {
		sustainedRetry = state.hits[0].Add(policy.SustainedWindow).Sub(now)
		if sustainedRetry < 0 {
			sustainedRetry = 0
		}
	}

	allowed := bucketRetry <= 0 && sustainedRetry <= 0
	if allowed {
		state.tokens = max(state.tokens-1, 0)
		state.hits = append(state.hits, now)
		sustainedRemaining = policy.SustainedLimit - len(state.hits)
	}

	bucketRemaining := int(math.Floor(state.tokens))
	if bucketRemaining < 0 {
		bucketRemaining = 0
	}
	if sustainedRemaining < 0 {
		sustainedRemaining = 0
	}
	remaining := min(bucketRemaining, sustainedRemaining)
	retryAfter := max(bucketRetry, sustainedRetry)
	if !allowed && retryAfter <= 0 {
		retryAfter = time.Second
	}

	resetAt := now.Add(policy.SustainedWindow)
	if len(state.hits) > 0 {
		resetAt = state.hits[0].Add(policy.SustainedWindow)
	}
	if !allowed {
		resetAt = now.Add(retryAfter)
	}

	return Decision{Allowed: allowed, RetryAfter: retryAfter, Remaining: remaining, ResetAt: resetAt}, nil
}

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	if ip := net.ParseIP(strings.TrimSpace(host)); ip != nil {
		return ip.String()
	}
	return host
}

func retryAfterHeader(d time.Duration) string {
	if d <= 0 {
		return "1"
	}
	seconds := int(d.Round(time.Second).Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return fmt.Sprintf("%d", seconds)
}

func writeRateLimitHeaders(h http.Header, limit int, remaining int, resetAt time.Time) {
	h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", max(limit, 0)))
	h.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(remaining, 0)))
	if resetAt.IsZero() {
		resetAt = time.Now().Add(time.Second)
	}
	h.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))
}

func normalizePolicy(policy RateLimitPolicy) RateLimitPolicy {
	if policy.SustainedLimit <= 0 {
		policy.SustainedLimit = 1
	}
	if policy.SustainedWindow <= 0 {
		policy.SustainedWindow = time.Minute
	}
	if policy.BurstCapacity < policy.SustainedLimit {
		policy.BurstCapacity = policy.SustainedLimit
	}
	if policy.BurstRefillPerSec <= 0 {
		policy.BurstRefillPerSec = float64(policy.SustainedLimit) / policy.SustainedWindow.Seconds()
	}
	if policy.BurstRefillPerSec <= 0 {
		policy.BurstRefillPerSec = 1
	}
	return policy
}
