package tracker

import (
	"sync"
	"time"
)

// AuthLimiter tracks failed password attempts per address and locks an
// address out once it reaches the limit. Repeated lockouts double in
// length up to a cap.
type AuthLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptInfo
	maxAttempts     int
	lockout         time.Duration
	maxLockout      time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	stop            chan struct{}
	stopOnce        sync.Once
}

type attemptInfo struct {
	failures     int
	lockedUntil  time.Time
	lockoutCount int
}

// NewAuthLimiter creates a limiter and starts its cleanup loop. Zero
// values fall back to 5 attempts, 30s and 300s.
func NewAuthLimiter(maxAttempts, lockoutSeconds, maxLockoutSeconds int) *AuthLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockoutSeconds <= 0 {
		lockoutSeconds = 30
	}
	if maxLockoutSeconds <= 0 {
		maxLockoutSeconds = 300
	}
	l := &AuthLimiter{
		attempts:        make(map[string]*attemptInfo),
		maxAttempts:     maxAttempts,
		lockout:         time.Duration(lockoutSeconds) * time.Second,
		maxLockout:      time.Duration(maxLockoutSeconds) * time.Second,
		cleanupInterval: 5 * time.Minute,
		now:             time.Now,
		stop:            make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *AuthLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (l *AuthLimiter) IsLocked(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.attempts[ip]
	if !ok {
		return false, 0
	}
	if now := l.now(); now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailure counts a failed attempt and reports whether ip is now
// locked out, with the lockout length.
func (l *AuthLimiter) RecordFailure(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.attempts[ip]
	if !ok {
		info = &attemptInfo{}
		l.attempts[ip] = info
	}

	now := l.now()
	if now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}

	info.failures++
	if info.failures < l.maxAttempts {
		return false, 0
	}

	info.lockoutCount++
	d := l.lockout
	for i := 1; i < info.lockoutCount && d < l.maxLockout; i++ {
		d *= 2
	}
	d = min(d, l.maxLockout)
	info.lockedUntil = now.Add(d)
	info.failures = 0
	return true, d
}

// RecordSuccess clears the failures recorded for ip.
func (l *AuthLimiter) RecordSuccess(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, ip)
}

func (l *AuthLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup drops addresses unlocked for ten minutes with no pending failures.
func (l *AuthLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-10 * time.Minute)
	for ip, info := range l.attempts {
		if info.lockedUntil.Before(cutoff) && info.failures == 0 {
			delete(l.attempts, ip)
		}
	}
}
