package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/spess/pkg/clock"
)

// TrackerConfig configures the shared window.
type TrackerConfig struct {
	// Scope separates windows of different agents, normally the agent symbol.
	Scope string
	// Max is the number of requests admitted per window across all processes.
	Max int
	// Window is the window length.
	Window time.Duration
}

// DefaultTrackerConfig mirrors the SpaceTraders burst limit.
func DefaultTrackerConfig(scope string) TrackerConfig {
	return TrackerConfig{
		Scope:  scope,
		Max:    30,
		Window: 63 * time.Second,
	}
}

// Tracker shares rate limit usage through redis so several processes driving
// the same agent stay within one budget.
type Tracker struct {
	redis  *redis.Client
	config TrackerConfig
	clock  clock.Clock
	logger zerolog.Logger
}

// NewTracker creates a tracker. A nil clk uses the system clock.
func NewTracker(redisClient *redis.Client, cfg TrackerConfig, clk clock.Clock, logger zerolog.Logger) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	return &Tracker{
		redis:  redisClient,
		config: cfg,
		clock:  clk,
		logger: logger,
	}
}

func (t *Tracker) windowKey() string { return RedisKeyWindow + t.config.Scope }
func (t *Tracker) stateKey() string  { return RedisKeyState + t.config.Scope }

// Acquire counts a request against the shared window. It returns zero when the
// request is admitted, otherwise how long to wait before trying again.
func (t *Tracker) Acquire(ctx context.Context) (time.Duration, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return 0, err
	}
	now := t.clock.Now()
	if state != nil && state.Exhausted(now) {
		wait := state.TimeUntilReset(now)
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Dur("wait_duration", wait).
			Msg("Server rate limit exhausted - delaying request")
		sharedWindowBlocksTotal.Inc()
		return wait, nil
	}

	key := t.windowKey()
	pipe := t.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("count shared window: %w", err)
	}

	count := incr.Val()
	ttl := pttl.Val()
	if count == 1 || ttl < 0 {
		if err := t.redis.PExpire(ctx, key, t.config.Window).Err(); err != nil {
			return 0, fmt.Errorf("open shared window: %w", err)
		}
		ttl = t.config.Window
	}

	if count <= int64(t.config.Max) {
		return 0, nil
	}

	// over budget: give the slot back so waiting callers do not inflate the count
	if err := t.redis.Decr(ctx, key).Err(); err != nil {
		return 0, fmt.Errorf("release shared window slot: %w", err)
	}

	t.logger.Debug().
		Int64("count", count).
		Dur("wait_duration", ttl).
		Msg("Shared rate limit window full")
	sharedWindowBlocksTotal.Inc()
	return ttl, nil
}

// Wait blocks until Acquire admits a request.
func (t *Tracker) Wait(ctx context.Context) error {
	for {
		wait, err := t.Acquire(ctx)
		if err != nil {
			return err
		}
		if wait <= 0 {
			return nil
		}
		if err := t.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// GetState returns the last server reported state, or nil if none is stored.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	data, err := t.redis.Get(ctx, t.stateKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rate limit state: %w", err)
	}

	var state RateLimitState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse rate limit state: %w", err)
	}
	return &state, nil
}

// UpdateFromHeaders records the state reported by a response.
func (t *Tracker) UpdateFromHeaders(ctx context.Context, headers http.Header) error {
	state, err := ParseHeaders(headers, t.clock.Now())
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal rate limit state: %w", err)
	}

	ttl := state.TimeUntilReset(state.LastUpdate)
	if ttl <= 0 {
		ttl = t.config.Window
	}
	if err := t.redis.Set(ctx, t.stateKey(), data, ttl).Err(); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}

	rateLimitRemaining.Set(float64(state.Remaining))

	event := t.logger.Debug()
	if state.Remaining <= 0 {
		event = t.logger.Warn()
	}
	event.
		Int("remaining", state.Remaining).
		Time("reset_at", state.ResetAt).
		Str("type", state.Type).
		Msg("Rate limit state updated")

	return nil
}

// Reset clears the shared window and stored state.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.redis.Del(ctx, t.windowKey(), t.stateKey()).Err(); err != nil {
		return fmt.Errorf("reset rate limit state: %w", err)
	}
	return nil
}
