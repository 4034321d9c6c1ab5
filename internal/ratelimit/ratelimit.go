// Package ratelimit throttles how often a token may trigger a record
// update. State is in-memory only: a restart resets the window, which
// is acceptable because a redundant update is idempotent at the
// provider.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks the last successful update per token
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

// New creates a limiter that allows one update per token per window.
// A non-positive window disables limiting.
func New(window time.Duration) *Limiter {
	return &Limiter{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether an update for token may proceed now
func (l *Limiter) Allow(token string) bool {
	if l.window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	last, ok := l.last[token]
	return !ok || l.now().Sub(last) >= l.window
}

// Mark records a successful update for token. Only successful writes
// consume the window; polls that find the record unchanged and failed
// attempts do not.
func (l *Limiter) Mark(token string) {
	if l.window <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[token] = l.now()
}
