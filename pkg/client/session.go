package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/spess/pkg/clock"
	"github.com/Sternrassler/spess/pkg/config"
	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/ratelimit"
)

// Option adjusts the configuration NewFromConfig derives from settings.
type Option func(*Config)

// WithClock drives the client from clk.
func WithClock(clk clock.Clock) Option {
	return func(c *Config) { c.Clock = clk }
}

// WithLimiter replaces the default local rate limiter.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Config) { c.Limiter = l }
}

// NewFromConfig builds a client from resolved settings. It asks the server
// for the current reset date and picks the matching agent token from the
// settings or the tokens file. Without any agent token the client is
// unauthenticated, which still allows Status and RegisterAgent.
func NewFromConfig(ctx context.Context, s config.Settings, opts ...Option) (_ *Client, err error) {
	cfg := DefaultConfig("")
	if s.URL != "" {
		cfg.BaseURL = s.URL
	}
	if s.CacheTTL > 0 {
		cfg.CacheTTL = s.CacheTTL
	}
	cfg.Debug = s.DebugEnabled()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.DefaultLimiter()
	}
	// shared by the status probe and the returned client
	cfg.Limiter = ratelimit.NewSynced(cfg.Limiter)

	if s.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", s.RedisAddr, err)
		}
		cfg.Redis = rdb
		defer func() {
			if err != nil {
				rdb.Close()
			}
		}()
	}

	tokens, err := s.OpenTokens()
	if err != nil {
		return nil, err
	}

	anon, err := New(cfg)
	if err != nil {
		return nil, err
	}
	status, err := anon.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("get server status: %w", err)
	}
	cfg.CacheScope = status.ResetDate.String()

	agent, err := tokens.GetAgent(status.ResetDate, s.AgentToken)
	switch {
	case err == nil:
		cfg.Token = agent.Raw
		cfg.RateLimitScope = agent.Identifier
	case s.AgentToken == "" && (errors.Is(err, config.ErrNoTokens) || errors.Is(err, config.ErrTokenNotFound)):
		// nothing for this reset yet; registering a new agent needs a client
		anon.logger.Warn().
			Str("tokens", tokens.Path()).
			Str("reset_date", status.ResetDate.String()).
			Msg("No agent token for this reset - client is unauthenticated")
	default:
		return nil, err
	}

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	c.tokens = tokens
	c.accountSel = s.AccountToken

	c.logger.Info().
		Str("url", cfg.BaseURL).
		Str("agent", cfg.RateLimitScope).
		Str("reset_date", cfg.CacheScope).
		Bool("redis", cfg.Redis != nil).
		Msg("Client ready")

	return c, nil
}

// Tokens returns the tokens file used by NewFromConfig, or nil.
func (c *Client) Tokens() *config.Tokens {
	return c.tokens
}

// RegisterAgent registers a new agent with the account token from the
// settings, stores the returned agent token and returns a client
// authenticated as the new agent.
func (c *Client) RegisterAgent(ctx context.Context, symbol, faction string) (*Client, *models.Registration, error) {
	if c.tokens == nil {
		return nil, nil, &Error{Class: ErrorClassClient, Message: "no tokens file configured"}
	}
	account, err := c.tokens.GetAccount(c.accountSel)
	if err != nil {
		return nil, nil, &Error{Class: ErrorClassClient, Message: "no account token", Err: err}
	}

	reg, err := c.WithToken(account.Raw).Register(ctx, symbol, faction)
	if err != nil {
		return nil, nil, err
	}

	tok, err := config.ParseToken(reg.Token)
	if err != nil {
		return nil, reg, parseError("registration returned a bad token", err)
	}
	if err := c.tokens.Add(tok); err != nil {
		c.logger.Warn().Err(err).Str("tokens", c.tokens.Path()).Msg("Failed to save agent token")
	}

	agent := c.WithToken(tok.Raw)
	agent.config.RateLimitScope = tok.Identifier
	if agent.config.Redis != nil {
		agent.tracker = ratelimit.NewTracker(agent.config.Redis, ratelimit.DefaultTrackerConfig(tok.Identifier), c.clock, c.logger)
	}
	return agent, reg, nil
}
