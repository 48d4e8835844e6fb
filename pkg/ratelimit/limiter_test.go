package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/spess/pkg/clock"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func approx(t *testing.T, got, want time.Duration) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > 2*time.Millisecond {
		t.Errorf("expected ~%v, got %v", want, got)
	}
}

func TestConstantRate(t *testing.T) {
	l := NewConstantRate(2, 0.05)
	approx(t, l.Delay(), 525*time.Millisecond)

	if wait := l.WaitTime(epoch); wait != 0 {
		t.Fatalf("fresh limiter should not wait, got %v", wait)
	}

	l.Use(epoch)
	approx(t, l.WaitTime(epoch), l.Delay())
	approx(t, l.WaitTime(epoch.Add(200*time.Millisecond)), l.Delay()-200*time.Millisecond)

	if wait := l.WaitTime(epoch.Add(l.Delay() + time.Millisecond)); wait != 0 {
		t.Errorf("expected no wait after delay, got %v", wait)
	}
}

func TestConstantRate_OveruseDoesNotAccumulate(t *testing.T) {
	l := NewConstantRate(2, 0)
	for i := 0; i < 10; i++ {
		l.Use(epoch)
	}
	approx(t, l.WaitTime(epoch), 500*time.Millisecond)
}

func TestConstantRate_Reset(t *testing.T) {
	l := NewConstantRate(1, 0)
	l.Use(epoch)
	l.Reset(epoch)
	if wait := l.WaitTime(epoch); wait != 0 {
		t.Errorf("expected no wait after reset, got %v", wait)
	}
}

func TestLeakyBucket(t *testing.T) {
	// 10/s with burst 4, margin reduces to 9/s and burst 3
	l := NewLeakyBucket(10, 4, 0.1)

	for i := 0; i < 3; i++ {
		if wait := l.WaitTime(epoch); wait != 0 {
			t.Fatalf("request %d: expected no wait, got %v", i, wait)
		}
		l.Use(epoch)
	}

	approx(t, l.WaitTime(epoch), time.Second/9)

	// overflowing a full bucket keeps it full
	l.Use(epoch)
	l.Use(epoch)
	approx(t, l.WaitTime(epoch), time.Second/9)
}

func TestLeakyBucket_MinimumBurst(t *testing.T) {
	l := NewLeakyBucket(1, 1, 0.5)
	if l.burst != 1 {
		t.Errorf("expected burst floor of 1, got %d", l.burst)
	}
}

func TestWindowed(t *testing.T) {
	l := NewWindowed(3, 10*time.Second, 0)

	for i := 0; i < 3; i++ {
		if wait := l.WaitTime(epoch); wait != 0 {
			t.Fatalf("request %d: expected no wait, got %v", i, wait)
		}
		l.Use(epoch)
	}

	if wait := l.WaitTime(epoch); wait != 10*time.Second {
		t.Errorf("expected 10s wait, got %v", wait)
	}
	if wait := l.WaitTime(epoch.Add(4 * time.Second)); wait != 6*time.Second {
		t.Errorf("expected 6s wait, got %v", wait)
	}

	later := epoch.Add(10 * time.Second)
	if wait := l.WaitTime(later); wait != 0 {
		t.Errorf("expected window to expire, got %v", wait)
	}
	l.Use(later)
	if l.count != 1 || !l.end.Equal(later.Add(10*time.Second)) {
		t.Errorf("expected new window, got count=%d end=%v", l.count, l.end)
	}
}

func TestWindowed_Margin(t *testing.T) {
	l := NewWindowed(1, 60*time.Second, 0.05)
	l.Use(epoch)
	if wait := l.WaitTime(epoch); wait != 63*time.Second {
		t.Errorf("expected 63s wait, got %v", wait)
	}
}

func TestAny(t *testing.T) {
	rate := NewConstantRate(2, 0)
	window := NewWindowed(2, 10*time.Second, 0)
	l := NewAny(rate, window)

	// burst through the window
	l.Use(epoch)
	if wait := l.WaitTime(epoch); wait != 0 {
		t.Fatalf("expected window to admit, got %v", wait)
	}
	l.Use(epoch)

	// window full, fall back to the constant rate
	approx(t, l.WaitTime(epoch), 500*time.Millisecond)
}

func TestAny_Flattens(t *testing.T) {
	inner := NewAny(Unlimited{}, Unlimited{})
	outer := NewAny(inner, NewWindowed(1, time.Second, 0))
	if len(outer.children) != 3 {
		t.Errorf("expected 3 children, got %d", len(outer.children))
	}
}

func TestAny_Empty(t *testing.T) {
	if wait := NewAny().WaitTime(epoch); wait != 0 {
		t.Errorf("expected empty Any not to wait, got %v", wait)
	}
}

func TestNewSynced_Idempotent(t *testing.T) {
	s := NewSynced(Unlimited{})
	if NewSynced(s) != s {
		t.Error("expected wrapping a Synced to return it unchanged")
	}
}

func TestWait(t *testing.T) {
	clk := clock.NewMock(epoch)
	l := NewSynced(NewWindowed(2, time.Second, 0))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := Wait(ctx, l, clk); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	sleeps := clk.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != time.Second {
		t.Errorf("expected a single 1s sleep, got %v", sleeps)
	}
	if !clk.Now().Equal(epoch.Add(time.Second)) {
		t.Errorf("expected clock at +1s, got %v", clk.Now())
	}
}

func TestWait_Unsynced(t *testing.T) {
	clk := clock.NewMock(epoch)
	l := NewConstantRate(2, 0)

	for i := 0; i < 3; i++ {
		if err := Wait(context.Background(), l, clk); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if n := len(clk.Sleeps()); n != 2 {
		t.Errorf("expected 2 sleeps, got %d", n)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	clk := clock.NewMock(epoch)
	l := NewWindowed(1, time.Minute, 0)
	l.Use(epoch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, l, clk); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDefaultLimiter(t *testing.T) {
	l := DefaultLimiter()
	for i := 0; i < 28; i++ {
		if wait := l.WaitTime(epoch); wait != 0 {
			t.Fatalf("request %d: expected burst to be admitted, got %v", i, wait)
		}
		l.Use(epoch)
	}
}
