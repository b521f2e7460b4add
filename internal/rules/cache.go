// Package rules wires the estimation rules bounded context: the Postgres
// store, the TTL snapshot cache in front of it, and cross-instance cache
// invalidation.
package rules

import (
	"context"
	"sync/atomic"
	"time"

	"leadquote_backend/internal/rules/domain"
)

// DefaultCacheTTL bounds how stale a cached configuration may be served when
// no explicit invalidation reaches this instance.
const DefaultCacheTTL = 5 * time.Minute

// ConfigLoader loads the active configuration. It must not fail; the rules
// service satisfies this by falling back to compiled-in defaults.
type ConfigLoader interface {
	Load(ctx context.Context) domain.Configuration
}

type cacheEntry struct {
	cfg      domain.Configuration
	loadedAt time.Time
}

// Cache is a time-boxed snapshot of the active rules configuration. Reads
// are lock-free; concurrent reads during a stale window may each trigger a
// reload, which is acceptable because loads are cheap and idempotent.
// Correctness does not depend on exactly-once reload.
type Cache struct {
	loader ConfigLoader
	ttl    time.Duration
	entry  atomic.Pointer[cacheEntry]
}

// NewCache creates a cache in front of the given loader. A non-positive TTL
// selects DefaultCacheTTL.
func NewCache(loader ConfigLoader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{loader: loader, ttl: ttl}
}

// Get returns the cached configuration if its age is below the TTL,
// otherwise reloads through the store and caches the result.
func (c *Cache) Get(ctx context.Context) domain.Configuration {
	if e := c.entry.Load(); e != nil && time.Since(e.loadedAt) < c.ttl {
		return e.cfg
	}

	cfg := c.loader.Load(ctx)
	c.entry.Store(&cacheEntry{cfg: cfg, loadedAt: time.Now()})
	return cfg
}

// Invalidate clears the cached snapshot so the next Get forces a reload.
func (c *Cache) Invalidate() {
	c.entry.Store(nil)
}
