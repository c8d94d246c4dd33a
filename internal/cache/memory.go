// Package cache holds the short code to long URL lookaside caches used by the
// redirect path.
package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps entries in process. A zero ttl means entries never expire.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]string
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		items:   make(map[string]string),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, code string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := c.expires[code]; ok && c.now().After(deadline) {
		delete(c.items, code)
		delete(c.expires, code)
		return "", false, nil
	}

	url, ok := c.items[code]
	return url, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, code, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[code] = url
	if c.ttl > 0 {
		c.expires[code] = c.now().Add(c.ttl)
	}
	return nil
}

// Delete removes every given code; absent codes are ignored.
func (c *MemoryCache) Delete(_ context.Context, codes ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, code := range codes {
		delete(c.items, code)
		delete(c.expires, code)
	}
	return nil
}

func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}
