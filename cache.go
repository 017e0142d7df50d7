package pubgraph

import (
	"sync"
	"time"
)

// PageCache is an in-memory cache of a Source's page list with TTL. Single
// page loads are never cached.
type PageCache struct {
	mu      sync.RWMutex
	pages   []Page
	fetched time.Time
	ttl     time.Duration
	source  Source
}

// NewPageCache creates a PageCache backed by the given Source.
func NewPageCache(s Source, ttl time.Duration) *PageCache {
	return &PageCache{source: s, ttl: ttl}
}

func (c *PageCache) valid() bool {
	return c.pages != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.pages = nil
	c.mu.Unlock()
}

// List returns the cached page list, reloading it when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PageCache) List() ([]Page, error) {
	c.mu.RLock()
	if c.valid() {
		pages := c.pages
		c.mu.RUnlock()
		return pages, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.pages, nil
	}
	pages, err := c.source.List()
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []Page{}
	}
	c.pages = pages
	c.fetched = time.Now()
	return c.pages, nil
}
