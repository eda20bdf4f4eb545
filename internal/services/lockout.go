// Package services – login lockout
//
// The AuthService consults a LoginLimiter before checking credentials. The
// limiter is injectable so a multi-instance deployment can swap the
// process-local implementation for one backed by shared storage; the
// in-memory implementation here suits a single instance, and its state is
// deliberately keyed by real caller identity (client address), not a shared
// placeholder.
package services

import (
	"sync"
	"time"
)

// LoginLimiter tracks failed login attempts per caller key and decides when
// a caller is locked out. Implementations must be safe for concurrent use.
type LoginLimiter interface {
	// Allow reports whether the caller may attempt a login now.
	Allow(key string) bool
	// Failure records a failed attempt for the caller.
	Failure(key string)
	// Success clears the caller's failure history.
	Success(key string)
}

// attemptState is the per-caller failure history.
type attemptState struct {
	failures int
	first    time.Time // start of the current counting window
	blocked  time.Time // zero unless locked out; lockout start
}

// MemoryLoginLimiter is the process-local LoginLimiter: maxAttempts failures
// within window lock the caller out for the same window duration; any
// success resets the counter. State is lost on restart, which is acceptable
// for single-instance deployments only.
type MemoryLoginLimiter struct {
	maxAttempts int
	window      time.Duration

	mu    sync.Mutex
	state map[string]*attemptState
	now   func() time.Time // test seam
}

// NewMemoryLoginLimiter constructs a limiter allowing maxAttempts failures
// per window before locking out for window.
func NewMemoryLoginLimiter(maxAttempts int, window time.Duration) *MemoryLoginLimiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLoginLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		state:       make(map[string]*attemptState),
		now:         time.Now,
	}
}

// Allow reports whether key may attempt a login. An expired lockout or
// counting window clears itself here.
func (l *MemoryLoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[key]
	if !ok {
		return true
	}
	now := l.now()
	if !st.blocked.IsZero() {
		if now.Sub(st.blocked) < l.window {
			return false
		}
		delete(l.state, key)
		return true
	}
	if now.Sub(st.first) >= l.window {
		delete(l.state, key)
	}
	return true
}

// Failure records a failed attempt and starts the lockout once the
// allowance is exhausted within the window.
func (l *MemoryLoginLimiter) Failure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st, ok := l.state[key]
	if !ok || now.Sub(st.first) >= l.window {
		st = &attemptState{first: now}
		l.state[key] = st
	}
	st.failures++
	if st.failures >= l.maxAttempts {
		st.blocked = now
	}
}

// Success clears the caller's failure history.
func (l *MemoryLoginLimiter) Success(key string) {
	l.mu.Lock()
	delete(l.state, key)
	l.mu.Unlock()
}
