package llm

import (
	"sync"
	"time"
)

// Limiter is a fixed-window call budget for the AI path. The window restarts
// whenever more than Window has passed since the last allowed call, so a
// quiet period always refills the budget.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	lastCall time.Time
	count    int
	now      func() time.Time
}

// NewLimiter builds a limiter allowing maxCalls per window. Non-positive
// arguments fall back to 15 calls per minute.
func NewLimiter(maxCalls int, window time.Duration) *Limiter {
	if maxCalls <= 0 {
		maxCalls = 15
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}
}

// Allow reports whether another AI call may go out now, consuming one slot
// when it does. Denials consume nothing.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCall) > l.window {
		l.count = 1
		l.lastCall = now
		return true
	}
	if l.count < l.maxCalls {
		l.count++
		l.lastCall = now
		return true
	}
	return false
}

// Remaining reports how many calls are left in the current window.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().Sub(l.lastCall) > l.window {
		return l.maxCalls
	}
	return l.maxCalls - l.count
}
