package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kitdeneme/kit/internal/log"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// InMemory is a CacheManager over a process-local go-cache. The name only
// shows up in log lines.
type InMemory[V any] struct {
	name  string
	cache *gocache.Cache
}

// NewInMemory creates an InMemory cache. Entries set with a zero TTL use
// defaultExpiration.
func NewInMemory[V any](name string, defaultExpiration, cleanupInterval time.Duration) *InMemory[V] {
	return &InMemory[V]{
		name:  name,
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the value under key.
func (c *InMemory[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V

	raw, found := c.cache.Get(key)
	if !found {
		log.Debug(log.CatCache, "Cache miss", "cache", c.name, "key", key)
		return zero, false
	}

	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "Cached value has unexpected type", "cache", c.name, "key", key)
		c.cache.Delete(key)
		return zero, false
	}

	log.Debug(log.CatCache, "Cache hit", "cache", c.name, "key", key)
	return v, true
}

// GetWithRefresh is Get that also pushes the entry's expiry out to ttl.
func (c *InMemory[V]) GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool) {
	v, found := c.Get(ctx, key)
	if found {
		c.Set(ctx, key, v, ttl)
	}
	return v, found
}

// Set stores value under key for ttl.
func (c *InMemory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes keys. Missing keys are ignored.
func (c *InMemory[V]) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
	if len(keys) > 0 {
		log.Debug(log.CatCache, "Cache invalidated", "cache", c.name, "keys", keys)
	}
}

// Flush removes everything.
func (c *InMemory[V]) Flush(_ context.Context) {
	c.cache.Flush()
}

// Len reports the number of entries, including expired ones not yet cleaned up.
func (c *InMemory[V]) Len() int {
	return c.cache.ItemCount()
}
