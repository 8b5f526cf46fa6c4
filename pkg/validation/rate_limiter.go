package validation

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket per key. Buckets idle for two windows are
// pruned on later calls.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastPrune time.Time
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// NewRateLimiter allows maxRequests per window for each key.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		buckets:     make(map[string]*bucket),
	}
}

// Allow takes a token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.maxRequests, lastRefill: now}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.refill(b, now)

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// refill adds tokens in proportion to the share of a window that passed.
func (rl *RateLimiter) refill(b *bucket, now time.Time) {
	if b.tokens >= rl.maxRequests {
		b.lastRefill = now
		return
	}
	elapsed := now.Sub(b.lastRefill)
	add := int(float64(rl.maxRequests) * float64(elapsed) / float64(rl.window))
	if add <= 0 {
		return
	}
	b.tokens = min(b.tokens+add, rl.maxRequests)
	b.lastRefill = now
}

func (rl *RateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.window {
		return
	}
	rl.lastPrune = now
	cutoff := now.Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Len is the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}
