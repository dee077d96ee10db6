// Package ratelimit throttles attempts per key with token buckets. It backs
// both the gateway middleware and the auth server's per-client limit.
package ratelimit

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/kitdeneme/kit/internal/log"
)

// idleTTL is how long an unused bucket is kept. A bucket idle this long is
// full again anyway, so dropping it changes nothing.
const idleTTL = 10 * time.Minute

// Limiter keeps one token bucket per key.
type Limiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	buckets *gocache.Cache
}

// NewLimiter allows burst attempts at once per key, refilled at rps per
// second.
func NewLimiter(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: gocache.New(idleTTL, idleTTL),
	}
}

// Allow takes a token from key's bucket and reports whether one was
// available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	var b *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		b = v.(*rate.Limiter)
	} else {
		b = rate.NewLimiter(l.rps, l.burst)
	}
	l.buckets.Set(key, b, gocache.DefaultExpiration)
	l.mu.Unlock()

	if !b.Allow() {
		log.Warn(log.CatAuth, "Throttled", "key", key)
		return false
	}
	return true
}

// Keys reports how many buckets are live.
func (l *Limiter) Keys() int {
	return l.buckets.ItemCount()
}
