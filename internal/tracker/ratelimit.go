package tracker

import (
	"sync"
	"time"
)

// MessageLimiter caps how many requests one client sends in a sliding
// window.
type MessageLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	times    []time.Time
	now      func() time.Time
	disabled bool
}

// NewMessageLimiter allows limit messages per window. A non-positive limit
// or window disables it.
func NewMessageLimiter(limit int, window time.Duration) *MessageLimiter {
	return &MessageLimiter{
		max:      limit,
		window:   window,
		times:    make([]time.Time, 0, max(limit, 0)),
		now:      time.Now,
		disabled: limit <= 0 || window <= 0,
	}
}

// Allow records a message and reports whether it is within the limit. When
// it is not, wait is how long until the oldest message leaves the window.
func (l *MessageLimiter) Allow() (ok bool, wait time.Duration) {
	if l.disabled {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.times[:0]
	for _, t := range l.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.times = kept

	if len(l.times) >= l.max {
		return false, l.times[0].Add(l.window).Sub(now)
	}
	l.times = append(l.times, now)
	return true, 0
}
