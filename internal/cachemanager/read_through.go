package cachemanager

import (
	"context"
	"time"
)

// ReadThrough answers from the cache and falls back to load on a miss,
// caching what load returns. Errors are never cached.
type ReadThrough[V any] struct {
	cache CacheManager[V]
	load  func(ctx context.Context) (V, error)
	ttl   time.Duration
}

// NewReadThrough creates a ReadThrough. A ttl <= 0 disables caching: every
// Get calls load.
func NewReadThrough[V any](cache CacheManager[V], ttl time.Duration, load func(ctx context.Context) (V, error)) *ReadThrough[V] {
	return &ReadThrough[V]{cache: cache, load: load, ttl: ttl}
}

// Get returns the cached value under key or loads it.
func (r *ReadThrough[V]) Get(ctx context.Context, key string) (V, error) {
	if r.ttl <= 0 {
		return r.load(ctx)
	}

	if v, ok := r.cache.Get(ctx, key); ok {
		return v, nil
	}

	v, err := r.load(ctx)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, r.ttl)
	return v, nil
}

// Put stores v under key, e.g. after a write that produced a fresh value.
func (r *ReadThrough[V]) Put(ctx context.Context, key string, v V) {
	if r.ttl <= 0 {
		return
	}
	r.cache.Set(ctx, key, v, r.ttl)
}

// Invalidate drops key so the next Get loads again.
func (r *ReadThrough[V]) Invalidate(ctx context.Context, key string) {
	r.cache.Delete(ctx, key)
}
