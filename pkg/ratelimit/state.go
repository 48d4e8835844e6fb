package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Redis keys for shared rate limit state. The scope, normally the agent
// symbol, is appended.
const (
	RedisKeyWindow = "spess:ratelimit:window:"
	RedisKeyState  = "spess:ratelimit:state:"
)

// Rate limit response headers sent by SpaceTraders.
const (
	HeaderLimitType      = "X-Ratelimit-Type"
	HeaderLimitPerSecond = "X-Ratelimit-Limit-Per-Second"
	HeaderLimitBurst     = "X-Ratelimit-Limit-Burst"
	HeaderRemaining      = "X-Ratelimit-Remaining"
	HeaderReset          = "X-Ratelimit-Reset"
)

// RateLimitState is the server side rate limit state reported by the last response.
type RateLimitState struct {
	// Type is the limit that applies, e.g. IP_ADDRESS or ACCOUNT.
	Type string `json:"type,omitempty"`

	// LimitPerSecond is the sustained request rate.
	LimitPerSecond int `json:"limit_per_second,omitempty"`

	// LimitBurst is the number of requests allowed within one burst window.
	LimitBurst int `json:"limit_burst,omitempty"`

	// Remaining is the number of requests left before the server rejects with 429.
	Remaining int `json:"remaining"`

	// ResetAt is when Remaining is replenished.
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was recorded.
	LastUpdate time.Time `json:"last_update"`
}

// ParseHeaders extracts the rate limit state from response headers. It returns
// nil without error when the response carries no rate limit headers.
func ParseHeaders(headers http.Header, now time.Time) (*RateLimitState, error) {
	remainStr := headers.Get(HeaderRemaining)
	if remainStr == "" {
		return nil, nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return nil, fmt.Errorf("parse %s header: %w", HeaderRemaining, err)
	}

	state := &RateLimitState{
		Type:       headers.Get(HeaderLimitType),
		Remaining:  remain,
		LastUpdate: now,
	}

	if v := headers.Get(HeaderLimitPerSecond); v != "" {
		if state.LimitPerSecond, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("parse %s header: %w", HeaderLimitPerSecond, err)
		}
	}
	if v := headers.Get(HeaderLimitBurst); v != "" {
		if state.LimitBurst, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("parse %s header: %w", HeaderLimitBurst, err)
		}
	}
	if v := headers.Get(HeaderReset); v != "" {
		if state.ResetAt, err = time.Parse(time.RFC3339, v); err != nil {
			return nil, fmt.Errorf("parse %s header: %w", HeaderReset, err)
		}
	}

	return state, nil
}

// IsStale returns true if the state is older than maxAge.
func (s *RateLimitState) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.LastUpdate) > maxAge
}

// Exhausted returns true when no requests remain before the reset.
func (s *RateLimitState) Exhausted(now time.Time) bool {
	return s.Remaining <= 0 && s.ResetAt.After(now)
}

// TimeUntilReset returns the duration until the limit resets, or 0 if it
// already has.
func (s *RateLimitState) TimeUntilReset(now time.Time) time.Duration {
	d := s.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
