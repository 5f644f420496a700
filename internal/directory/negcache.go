package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"cardpark/internal/domain"
)

// NegativeCache remembers codes that recently resolved to
// ErrCodeNotFound so repeated probes for junk codes skip the backend.
type NegativeCache interface {
	Contains(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, code string, ttl time.Duration) error
	Remove(ctx context.Context, code string) error
}

type MemoryNegativeCache struct {
	mu    sync.RWMutex
	codes map[string]time.Time
	now   func() time.Time
}

func NewMemoryNegativeCache() *MemoryNegativeCache {
	return &MemoryNegativeCache{codes: make(map[string]time.Time), now: time.Now}
}

func (c *MemoryNegativeCache) Contains(_ context.Context, code string) (bool, error) {
	c.mu.RLock()
	expiresAt, ok := c.codes[code]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if c.now().After(expiresAt) {
		c.mu.Lock()
		delete(c.codes, code)
		c.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (c *MemoryNegativeCache) Add(_ context.Context, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	c.codes[code] = c.now().Add(ttl)
	c.mu.Unlock()
	return nil
}

func (c *MemoryNegativeCache) Remove(_ context.Context, code string) error {
	c.mu.Lock()
	delete(c.codes, code)
	c.mu.Unlock()
	return nil
}

// CachedClient wraps a Client with a NegativeCache. Hits never reach
// the backend; a cache failure falls through to the backend rather
// than failing the lookup.
type CachedClient struct {
	inner Client
	cache NegativeCache
	ttl   time.Duration
}

func NewCachedClient(inner Client, cache NegativeCache, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedClient{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedClient) Get(ctx context.Context, code string) (*domain.AccessCode, error) {
	if hit, err := c.cache.Contains(ctx, code); err == nil && hit {
		return nil, ErrCodeNotFound
	}
	rec, err := c.inner.Get(ctx, code)
	if errors.Is(err, ErrCodeNotFound) {
		_ = c.cache.Add(ctx, code, c.ttl)
	}
	return rec, err
}

func (c *CachedClient) Claim(ctx context.Context, code string, p domain.Profile, at time.Time) (*domain.AccessCode, error) {
	return c.inner.Claim(ctx, code, p, at)
}

// Provision forwards to the inner client when it supports provisioning
// and drops any stale negative entry for the new code.
func (c *CachedClient) Provision(ctx context.Context, code string) error {
	prov, ok := c.inner.(Provisioner)
	if !ok {
		return errors.New("directory: backend does not support provisioning")
	}
	if err := prov.Provision(ctx, code); err != nil {
		return err
	}
	return c.cache.Remove(ctx, code)
}
