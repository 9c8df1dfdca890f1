package domain

import (
	"sync"
	"time"
)

// CatalogCache holds the most recently fetched catalog snapshot. Validity
// is evaluated at read time against the configured TTL; an expired snapshot
// is not evicted, so it stays reachable through Last for stale fallback.
type CatalogCache struct {
	mu      sync.RWMutex
	current *CatalogSnapshot
	ttl     time.Duration
}

// NewCatalogCache creates an empty cache. A non-positive ttl falls back to
// the default of DefaultCatalogTTLSeconds.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultCatalogTTLSeconds * time.Second
	}
	return &CatalogCache{ttl: ttl}
}

// GetValid returns the current snapshot if one is stored and younger than
// the TTL. A snapshot fetched at T is valid in [T, T+ttl) and invalid from
// T+ttl on.
func (c *CatalogCache) GetValid() (CatalogSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return CatalogSnapshot{}, false
	}
	if time.Since(c.current.FetchedAt) >= c.ttl {
		return CatalogSnapshot{}, false
	}
	return c.current.Clone(), true
}

// Last returns the stored snapshot regardless of TTL expiry.
func (c *CatalogCache) Last() (CatalogSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return CatalogSnapshot{}, false
	}
	return c.current.Clone(), true
}

// Store replaces the current snapshot unconditionally. A zero FetchedAt is
// stamped with the call time.
func (c *CatalogCache) Store(snapshot CatalogSnapshot) {
	copied := snapshot.Clone()
	if copied.FetchedAt.IsZero() {
		copied.FetchedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &copied
}

// Invalidate clears the cache so the next read misses.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// Age returns how long ago the current snapshot was fetched.
func (c *CatalogCache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return 0, false
	}
	return time.Since(c.current.FetchedAt), true
}

// TTL returns the configured validity window.
func (c *CatalogCache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

// SetTTL updates the validity window, used by config hot reload. A
// non-positive value is ignored.
func (c *CatalogCache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}
