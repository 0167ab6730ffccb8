// Package ratelimit implements a lightweight, in-memory, fixed-window request
// limiter with per-identity counters and opportunistic garbage collection.
// It is designed for simplicity, low overhead, and predictable behavior in a
// single-process deployment (e.g., a container or dev setup).
//
// Semantics:
//   - Each identity owns a counter bound to a window start time.
//   - When a window has elapsed, the counter resets and a new window begins.
//   - Every call increments the counter, including the call that exceeds the
//     budget, so an over-limit identity stays blocked until the window rolls.
//   - Check-and-increment happens under one mutex acquisition, so concurrent
//     callers for the same identity are admitted exactly Max times per window.
//
// Notes:
//   - This limiter is process-local; counters reset on restart. For
//     horizontally scaled deployments, prefer a distributed limiter (e.g.,
//     Redis-backed) to enforce global limits.
//   - The limiter is intended for edge-level abuse control and cost
//     protection; it is not an authorization mechanism.
package ratelimit

import (
	"sync"
	"time"
)

// window holds a single identity's counter and the time its window opened.
type window struct {
	count    int
	start    time.Time
	lastSeen time.Time
}

// Limiter implements per-identity fixed-window counting.
//
// Buckets are created on demand and stored in an internal map guarded by a
// mutex. Idle buckets are evicted after a TTL via opportunistic cleanup
// during lookups to keep memory usage bounded.
//
// This type is safe for concurrent use.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*window

	ttl      time.Duration
	cleanupN uint64

	now func() time.Time // test seam
}

// New constructs a Limiter admitting at most max requests per identity within
// each window of the given duration. max values <= 0 are coerced to 1;
// window values <= 0 are coerced to one minute.
func New(max int, windowDur time.Duration) *Limiter {
	if max <= 0 {
		max = 1
	}
	if windowDur <= 0 {
		windowDur = time.Minute
	}
	ttl := 10 * windowDur
	if ttl < 10*time.Minute {
		ttl = 10 * time.Minute
	}
	return &Limiter{
		max:     max,
		window:  windowDur,
		buckets: make(map[string]*window),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow records one request for identity and reports whether it fits the
// current window's budget. The increment is applied even when the answer is
// false, so repeated over-limit calls do not extend the window.
func (l *Limiter) Allow(identity string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Opportunistic cleanup after a threshold of lookups, then reset the
	// counter. Run it before touching the requested bucket so an idle entry
	// can be evicted even when it is the one being fetched.
	l.cleanupN++
	if l.cleanupN >= 5000 {
		for k, w := range l.buckets {
			if now.Sub(w.lastSeen) >= l.ttl {
				delete(l.buckets, k)
			}
		}
		l.cleanupN = 0
	}

	w, ok := l.buckets[identity]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.buckets[identity] = w
	}
	w.count++
	w.lastSeen = now

	return w.count <= l.max
}
