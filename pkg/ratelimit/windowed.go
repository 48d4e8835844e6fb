package ratelimit

import "time"

// Windowed admits up to max requests per window. The first request after a
// window expires opens a new one of length window*(1+margin).
type Windowed struct {
	max    int
	window time.Duration

	end   time.Time
	count int
}

// NewWindowed creates a Windowed limiter.
func NewWindowed(max int, window time.Duration, margin float64) *Windowed {
	return &Windowed{
		max:    max,
		window: time.Duration(float64(window) * (1 + margin)),
	}
}

// Reset closes the current window.
func (w *Windowed) Reset(now time.Time) {
	w.end = now
	w.count = 0
}

// WaitTime is zero while the window has room, otherwise the time until it ends.
func (w *Windowed) WaitTime(now time.Time) time.Duration {
	wait := w.end.Sub(now)
	if wait > 0 && w.count >= w.max {
		return wait
	}
	return 0
}

// Use counts a request, opening a new window when the last one has ended.
func (w *Windowed) Use(now time.Time) {
	if !now.Before(w.end) {
		w.end = now.Add(w.window)
		w.count = 1
		return
	}
	w.count++
}
