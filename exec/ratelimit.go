package exec

import (
	"sync"
	"time"
)

// RateLimiter bounds outbound live orders to a per-minute cap over a
// rolling window of submission timestamps.
//
// Allow and Record are split on purpose: Allow only answers whether an
// order may go out right now, Record appends the timestamp of an order
// that was actually dispatched. Check-only calls therefore never consume
// budget.
type RateLimiter struct {
	mu     sync.Mutex
	cap    int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

// NewRateLimiter allows at most perMinute orders in any rolling 60-second
// window.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		cap:    perMinute,
		window: time.Minute,
		now:    time.Now,
	}
}

// Allow reports whether another order fits in the current window. It has
// no side effect beyond evicting expired timestamps.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evict(r.now())
	return len(r.stamps) < r.cap
}

// Record appends the current timestamp. Call it immediately after a
// genuinely dispatched order.
func (r *RateLimiter) Record() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evict(now)
	r.stamps = append(r.stamps, now)
}

// evict trims timestamps older than the window. Timestamps are appended
// in non-decreasing order, so expiry is a prefix trim.
func (r *RateLimiter) evict(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.stamps) && !r.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.stamps = append(r.stamps[:0], r.stamps[i:]...)
	}
}
