package ratelimit

import "time"

// Any lets a request through as soon as any child limiter allows it. Uses are
// recorded on every child.
type Any struct {
	children []Limiter
}

// NewAny combines limiters. Nested Any values are flattened.
func NewAny(children ...Limiter) *Any {
	a := &Any{}
	for _, c := range children {
		if nested, ok := c.(*Any); ok {
			a.children = append(a.children, nested.children...)
			continue
		}
		a.children = append(a.children, c)
	}
	return a
}

// Reset resets every child.
func (a *Any) Reset(now time.Time) {
	for _, c := range a.children {
		c.Reset(now)
	}
}

// WaitTime returns the shortest wait among the children.
func (a *Any) WaitTime(now time.Time) time.Duration {
	if len(a.children) == 0 {
		return 0
	}
	var shortest time.Duration = -1
	for _, c := range a.children {
		wait := c.WaitTime(now)
		if wait <= 0 {
			return 0
		}
		if shortest < 0 || wait < shortest {
			shortest = wait
		}
	}
	return shortest
}

// Use records the request on every child.
func (a *Any) Use(now time.Time) {
	for _, c := range a.children {
		c.Use(now)
	}
}
