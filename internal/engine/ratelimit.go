package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiter is a strict sliding-window admission gate: no rolling window of
// length Window ever observes more than Max grants. Unlike a token bucket it
// never resets on a fixed boundary.
type RateLimiter struct {
	name   string
	max    int
	window time.Duration

	mu     sync.Mutex
	grants []time.Time // ascending

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter admitting max calls per window.
// max <= 0 disables limiting.
func NewRateLimiter(name string, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name:   name,
		max:    max,
		window: window,
		now:    time.Now,
		sleep:  SleepContext,
	}
}

// Wait blocks until a call may proceed, records the grant, and returns how long
// the caller was suspended.
func (l *RateLimiter) Wait(ctx context.Context) (time.Duration, error) {
	if l == nil || l.max <= 0 || l.window <= 0 {
		return 0, ctx.Err()
	}

	var waited time.Duration
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.grants) < l.max {
			l.grants = append(l.grants, now)
			l.mu.Unlock()
			return waited, nil
		}
		wait := l.grants[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		slog.Debug("rate limit reached", slog.String("limiter", l.name), slog.Duration("wait", wait))
		if err := l.sleep(ctx, wait); err != nil {
			return waited, err
		}
		waited += wait
	}
}

// Do waits for admission and then runs fn.
func (l *RateLimiter) Do(ctx context.Context, fn func() error) error {
	if _, err := l.Wait(ctx); err != nil {
		return err
	}
	return fn()
}

// prune drops grants that have left the window. Caller holds mu.
func (l *RateLimiter) prune(now time.Time) {
	i := 0
	for i < len(l.grants) && now.Sub(l.grants[i]) >= l.window {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}

// InFlight returns how many grants are inside the current window.
func (l *RateLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.grants)
}
