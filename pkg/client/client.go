// Package client provides the SpaceTraders HTTP client with rate limiting,
// caching, retries and typed errors.
package client

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/spess/pkg/cache"
	"github.com/Sternrassler/spess/pkg/clock"
	"github.com/Sternrassler/spess/pkg/config"
	"github.com/Sternrassler/spess/pkg/logging"
	"github.com/Sternrassler/spess/pkg/ratelimit"
)

// DefaultBaseURL is the public SpaceTraders v2 API.
const DefaultBaseURL = config.DefaultURL

// DefaultUserAgent identifies the client.
const DefaultUserAgent = "spess-go/1.0"

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without trailing slash
	BaseURL string `validate:"required,url"`

	// Token is the bearer token. Empty sends unauthenticated requests.
	Token string

	// UserAgent header
	UserAgent string `validate:"required"`

	// Timeout per HTTP request
	Timeout time.Duration `validate:"gte=0"`

	// Limiter paces requests locally (nil: ratelimit.DefaultLimiter)
	Limiter ratelimit.Limiter

	// Redis enables the response cache and the shared rate limit window (optional)
	Redis *redis.Client

	// CacheTTL is the lifetime of cached system data without cache headers
	CacheTTL time.Duration `validate:"gte=0"`

	// CacheScope separates cached data, normally the server reset date
	CacheScope string

	// RateLimitScope names the shared window, normally the agent symbol
	RateLimitScope string

	// Retry overrides RetryConfigForErrorClass per class
	Retry map[ErrorClass]RetryConfig

	// Clock drives sleeps for limiter waits, backoff and ship waits (nil: system clock)
	Clock clock.Clock

	// Debug logs request and response bodies
	Debug bool
}

// DefaultConfig returns a configuration for the public API using token.
func DefaultConfig(token string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Token:          token,
		UserAgent:      DefaultUserAgent,
		Timeout:        30 * time.Second,
		CacheTTL:       cache.DefaultTTL,
		RateLimitScope: "default",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client is the SpaceTraders API client. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	limiter ratelimit.Limiter
	tracker *ratelimit.Tracker
	cache   *cache.Manager
	clock   clock.Clock
	aliases *aliases
	config  Config
	logger  zerolog.Logger

	// set by NewFromConfig
	tokens     *config.Tokens
	accountSel string
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	logger := logging.NewLogger("spess-client")

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.DefaultLimiter()
	}
	// batch fetches and WithToken copies share the limiter
	cfg.Limiter = ratelimit.NewSynced(cfg.Limiter)
	if cfg.RateLimitScope == "" {
		cfg.RateLimitScope = "default"
	}

	c := &Client{
		http:    newHTTPClient(cfg),
		limiter: cfg.Limiter,
		clock:   cfg.Clock,
		aliases: newAliases(),
		config:  cfg,
		logger:  logger,
	}

	if cfg.Redis != nil {
		c.tracker = ratelimit.NewTracker(cfg.Redis, ratelimit.DefaultTrackerConfig(cfg.RateLimitScope), cfg.Clock, logger)
		c.cache = cache.NewManager(cfg.Redis, cfg.CacheTTL, cfg.Clock)
	}

	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Cache returns the response cache, or nil without redis.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

// Tracker returns the shared rate limit tracker, or nil without redis.
func (c *Client) Tracker() *ratelimit.Tracker {
	return c.tracker
}

// WithToken returns a client sharing this client's limiter, cache and
// aliases but authenticating with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.config.Token = token
	cp.http = newHTTPClient(cp.config)
	return &cp
}

func newHTTPClient(cfg Config) *resty.Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}
	return httpClient
}

func (c *Client) retryConfig(class ErrorClass) RetryConfig {
	if rc, ok := c.config.Retry[class]; ok {
		return rc
	}
	return RetryConfigForErrorClass(class)
}
