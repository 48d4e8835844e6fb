// Package clock abstracts time so waits, backoff and rate limiting can be
// driven instantly in tests.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock is a source of time that can also block.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// Real implements Clock using the system time.
type Real struct{}

// New returns the system clock.
func New() Clock {
	return Real{}
}

// Now returns the current time in UTC.
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Sleep waits for d, honouring ctx cancellation.
func (Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Mock is a manually driven Clock. Sleep advances the clock without blocking.
type Mock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

// NewMock creates a Mock starting at start, or at the current time if start is zero.
func NewMock(start time.Time) *Mock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Mock{now: start}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Sleep records d and advances the clock by it.
func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now = m.now.Add(d)
	}
	m.slept = append(m.slept, d)
	return nil
}

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set moves the clock to t.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Sleeps returns every duration passed to Sleep, in order.
func (m *Mock) Sleeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.slept))
	copy(out, m.slept)
	return out
}
