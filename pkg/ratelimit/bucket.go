package ratelimit

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// ConstantRate allows one request every (1+margin)/perSecond seconds.
type ConstantRate struct {
	limit rate.Limit
	lim   *rate.Limiter
}

// NewConstantRate creates a ConstantRate limiter for perSecond requests per second.
func NewConstantRate(perSecond, margin float64) *ConstantRate {
	c := &ConstantRate{limit: rate.Limit(perSecond / (1 + margin))}
	c.lim = rate.NewLimiter(c.limit, 1)
	return c
}

// Delay returns the minimum spacing between two requests.
func (c *ConstantRate) Delay() time.Duration {
	return durationOf(1 / float64(c.limit))
}

// Reset forgets the last use.
func (c *ConstantRate) Reset(time.Time) {
	c.lim = rate.NewLimiter(c.limit, 1)
}

// WaitTime returns how long until the next request is allowed.
func (c *ConstantRate) WaitTime(now time.Time) time.Duration {
	return waitForToken(c.lim, now)
}

// Use consumes the single token. When it is not available the bucket is
// restarted empty at now, so overuse costs at most one full interval.
func (c *ConstantRate) Use(now time.Time) {
	if !c.lim.AllowN(now, 1) {
		c.lim = rate.NewLimiter(c.limit, 1)
		c.lim.AllowN(now, 1)
	}
}

// LeakyBucket drains at rate per second and holds at most burst requests.
type LeakyBucket struct {
	limit rate.Limit
	burst int
	lim   *rate.Limiter
}

// NewLeakyBucket creates a LeakyBucket; both rate and burst are reduced by margin.
func NewLeakyBucket(perSecond, burst, margin float64) *LeakyBucket {
	b := &LeakyBucket{
		limit: rate.Limit(perSecond * (1 - margin)),
		burst: int(math.Max(1, math.Floor(burst*(1-margin)))),
	}
	b.lim = rate.NewLimiter(b.limit, b.burst)
	return b
}

// Reset refills the bucket.
func (b *LeakyBucket) Reset(time.Time) {
	b.lim = rate.NewLimiter(b.limit, b.burst)
}

// WaitTime returns how long until a token is available.
func (b *LeakyBucket) WaitTime(now time.Time) time.Duration {
	return waitForToken(b.lim, now)
}

// Use adds a request to the bucket. A full bucket stays full instead of
// overflowing.
func (b *LeakyBucket) Use(now time.Time) {
	if !b.lim.AllowN(now, 1) {
		b.lim = rate.NewLimiter(b.limit, b.burst)
		b.lim.AllowN(now, b.burst)
	}
}

func waitForToken(lim *rate.Limiter, now time.Time) time.Duration {
	tokens := lim.TokensAt(now)
	if tokens >= 1 {
		return 0
	}
	return durationOf((1 - tokens) / float64(lim.Limit()))
}

func durationOf(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
