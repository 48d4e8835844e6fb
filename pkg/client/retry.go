package client

import (
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial request).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration. For rate limit errors it
	// is the wait used when Retry-After is missing or unparsable.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryConfigForErrorClass returns the default retry configuration for an error class.
func RetryConfigForErrorClass(errorClass ErrorClass) RetryConfig {
	switch errorClass {
	case ErrorClassServer:
		// 5xx server errors - shorter backoff
		return RetryConfig{
			MaxAttempts:       3,
			InitialBackoff:    1 * time.Second,
			MaxBackoff:        10 * time.Second,
			BackoffMultiplier: 2.0,
		}
	case ErrorClassRateLimit:
		// 429 - wait as told and try once more
		return RetryConfig{
			MaxAttempts:       2,
			InitialBackoff:    2 * time.Second,
			MaxBackoff:        60 * time.Second,
			BackoffMultiplier: 1.0,
		}
	case ErrorClassNetwork:
		// Network errors - medium backoff
		return RetryConfig{
			MaxAttempts:       3,
			InitialBackoff:    2 * time.Second,
			MaxBackoff:        30 * time.Second,
			BackoffMultiplier: 2.0,
		}
	default:
		return DefaultRetryConfig()
	}
}

// backoff returns the wait before retry number retry (1-based) with ±20% jitter.
func (rc RetryConfig) backoff(retry int) time.Duration {
	d := float64(rc.InitialBackoff)
	for i := 1; i < retry; i++ {
		d *= rc.BackoffMultiplier
		if rc.MaxBackoff > 0 && d > float64(rc.MaxBackoff) {
			d = float64(rc.MaxBackoff)
			break
		}
	}
	return time.Duration(d * (0.8 + rand.Float64()*0.4))
}

// maxWaitSeconds is the largest wait a time.Duration can hold.
var maxWaitSeconds = time.Duration(math.MaxInt64).Seconds()

// retryAfter parses the Retry-After header. SpaceTraders sends seconds, but
// HTTP dates are accepted as well. fallback is used when the header is absent
// or invalid; the result never exceeds limit when limit is positive.
func retryAfter(header http.Header, now time.Time, fallback, limit time.Duration) time.Duration {
	wait := fallback
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
			switch {
			case limit > 0 && secs >= limit.Seconds():
				wait = limit
			case secs >= maxWaitSeconds:
				wait = time.Duration(math.MaxInt64)
			default:
				wait = time.Duration(secs * float64(time.Second))
			}
		} else if at, err := http.ParseTime(v); err == nil {
			wait = max(at.Sub(now), 0)
		}
	}
	if limit > 0 && wait > limit {
		wait = limit
	}
	return wait
}
