// Package health provides cached readiness probes over the service's
// backing dependencies.
package health

import (
	"context"
	"sync"
	"time"
)

type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Checker probes one dependency. Implementations must respect ctx
// cancellation.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// ProbeRunner runs all checkers, caching results for the configured
// interval so a probe storm cannot hammer the dependencies.
type ProbeRunner struct {
	interval time.Duration
	timeout  time.Duration
	checkers []Checker

	mu      sync.Mutex
	lastRun time.Time
	cached  []CheckResult
}

func NewProbeRunner(interval, timeout time.Duration, checkers ...Checker) *ProbeRunner {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProbeRunner{interval: interval, timeout: timeout, checkers: checkers}
}

// Ready reports whether every dependency is healthy, alongside the
// individual results.
func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.cached == nil || now.Sub(p.lastRun) >= p.interval {
		results := make([]CheckResult, 0, len(p.checkers))
		for _, c := range p.checkers {
			checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
			results = append(results, c.Check(checkCtx))
			cancel()
		}
		p.cached = results
		p.lastRun = now
	}

	ready := true
	for _, res := range p.cached {
		if !res.Healthy {
			ready = false
			break
		}
	}
	return ready, p.cached
}
