package http

import (
	"sync"
	"time"
)

// minIdleTTL is the shortest time a client bucket is kept after its last
// refill. Buckets are never dropped before their refill is due.
const minIdleTTL = time.Hour

type bucket struct {
	tokens   int
	refilled time.Time
}

// RateLimiter gives every client key capacity requests per refill window.
// A bucket refills in full once the window has passed since its last
// refill. Idle buckets are swept in the background.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	idleTTL  time.Duration
	buckets  map[string]*bucket
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		idleTTL:  max(minIdleTTL, window),
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.sweepLoop(rl.idleTTL / 2)
	return rl
}

func (r *RateLimiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			return
		}
	}
}

// sweep drops buckets whose window has long expired. A dropped client
// starts over with a full bucket, which it would have had anyway.
func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, b := range r.buckets {
		if now.Sub(b.refilled) >= r.idleTTL {
			delete(r.buckets, key)
		}
	}
}

// Stop ends the sweeper. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Allow takes one token from key's bucket and reports whether one was left.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[key]
	switch {
	case !ok:
		b = &bucket{tokens: r.capacity, refilled: now}
		r.buckets[key] = b
	case now.Sub(b.refilled) >= r.window:
		b.tokens = r.capacity
		b.refilled = now
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// Clients returns the number of tracked client buckets.
func (r *RateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}
