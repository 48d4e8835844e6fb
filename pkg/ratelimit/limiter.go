// Package ratelimit implements client side request pacing for the SpaceTraders
// API and a redis backed window shared between processes using one agent.
//
// SpaceTraders allows 2 requests per second with bursts of 30 requests per 60
// seconds. DefaultLimiter models that as ConstantRate OR Windowed: a request
// may proceed when either limiter allows it.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/spess/pkg/clock"
)

// Limiter paces requests. Implementations take the current time explicitly so
// they can be driven by a mock clock.
type Limiter interface {
	// Reset clears all recorded usage.
	Reset(now time.Time)
	// WaitTime returns how long to wait before the next request is allowed.
	// It must not mutate the limiter.
	WaitTime(now time.Time) time.Duration
	// Use records a request made at now. Calling Use in a tight loop must not
	// grow WaitTime beyond what a caller obeying WaitTime would see.
	Use(now time.Time)
}

// DefaultMargin is the safety margin applied to the published API limits.
const DefaultMargin = 0.05

// DefaultLimiter returns the limiter matching the published SpaceTraders limits.
func DefaultLimiter() Limiter {
	return NewSynced(NewAny(
		NewConstantRate(2, DefaultMargin),
		NewWindowed(30, 60*time.Second, DefaultMargin),
	))
}

// Wait blocks until l allows a request, then records it.
func Wait(ctx context.Context, l Limiter, clk clock.Clock) error {
	for {
		now := clk.Now()
		var wait time.Duration
		if s, ok := l.(*Synced); ok {
			wait = s.take(now)
		} else if wait = l.WaitTime(now); wait <= 0 {
			l.Use(now)
		}
		if wait <= 0 {
			return nil
		}

		limiterWaitsTotal.Inc()
		limiterWaitSeconds.Observe(wait.Seconds())
		if err := clk.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Unlimited imposes no limit.
type Unlimited struct{}

// Reset does nothing.
func (Unlimited) Reset(time.Time) {}

// WaitTime is always zero.
func (Unlimited) WaitTime(time.Time) time.Duration { return 0 }

// Use does nothing.
func (Unlimited) Use(time.Time) {}

// Synced guards a Limiter with a mutex.
type Synced struct {
	mu    sync.Mutex
	inner Limiter
}

// NewSynced wraps l. Wrapping a *Synced returns it unchanged.
func NewSynced(l Limiter) *Synced {
	if s, ok := l.(*Synced); ok {
		return s
	}
	return &Synced{inner: l}
}

// Reset resets the wrapped limiter.
func (s *Synced) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Reset(now)
}

// WaitTime queries the wrapped limiter.
func (s *Synced) WaitTime(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.WaitTime(now)
}

// Use records a request on the wrapped limiter.
func (s *Synced) Use(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Use(now)
}

// take atomically checks and, when allowed, records a request.
func (s *Synced) take(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	wait := s.inner.WaitTime(now)
	if wait <= 0 {
		s.inner.Use(now)
	}
	return wait
}
