// Package ratelimit enforces a minimum interval between requests to one
// external source. A single shared Limiter per source is the sole admission
// point for that source.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces calls to one source at least interval apart
type Limiter struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option represents an option for configuring the limiter
type Option func(*Limiter)

// WithClock overrides the time source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithSleep overrides the sleep function. Useful in tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// New creates a limiter with the given minimum inter-request interval
func New(interval time.Duration, options ...Option) *Limiter {
	limiter := &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}

	for _, option := range options {
		option(limiter)
	}

	return limiter
}

// Interval returns the configured minimum inter-request interval
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the caller may issue a request. Admission slots are
// reserved under the lock so two concurrent callers can never both observe a
// stale "time since last request"; callers are released in reservation
// order.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := l.now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	if delay := slot.Sub(now); delay > 0 {
		return l.sleep(ctx, delay)
	}
	return ctx.Err()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
