package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SPESS_"

// DefaultURL is the public SpaceTraders v2 API.
const DefaultURL = "https://api.spacetraders.io/v2"

// Settings configures the client and the binary.
type Settings struct {
	// TokensPath is the tokens file
	TokensPath string `env:"TOKENS"`
	// TokensWrite allows new tokens to be saved to TokensPath
	TokensWrite *bool `env:"TOKENS_WRITE"`
	// URL is the API base URL
	URL string `env:"URL" validate:"omitempty,url"`
	// AccountToken is an account token, or the identifier of one in the tokens file
	AccountToken string `env:"ACCOUNT_TOKEN"`
	// AgentToken is an agent token, or the symbol of an agent in the tokens file
	AgentToken string `env:"AGENT_TOKEN"`
	// RedisAddr enables the response cache and shared rate limiting
	RedisAddr string `env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	// CacheTTL is the lifetime of cached system data
	CacheTTL time.Duration `env:"CACHE_TTL" validate:"gte=0"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	// Debug logs every request and response
	Debug *bool `env:"DEBUG"`
}

// Write reports whether the tokens file may be written.
func (s Settings) Write() bool {
	return s.TokensWrite == nil || *s.TokensWrite
}

// DebugEnabled reports whether request debugging is on.
func (s Settings) DebugEnabled() bool {
	return s.Debug != nil && *s.Debug
}

// Defaults returns the settings used when nothing else is given.
func Defaults() (Settings, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Settings{}, fmt.Errorf("locate config dir: %w", err)
	}
	write := true
	debug := false
	return Settings{
		TokensPath:  filepath.Join(dir, "spess", "tokens.txt"),
		TokensWrite: &write,
		URL:         DefaultURL,
		CacheTTL:    time.Hour,
		LogLevel:    "info",
		Debug:       &debug,
	}, nil
}

// Load resolves settings from the process environment, explicit and defaults.
func Load(explicit Settings) (Settings, error) {
	return newSettingsBuilder().
		withEnv(nil).
		with(explicit).
		withDefaults().
		build()
}

// LoadFrom is Load with the environment given as a map.
func LoadFrom(environ map[string]string, explicit Settings) (Settings, error) {
	return newSettingsBuilder().
		withEnv(environ).
		with(explicit).
		withDefaults().
		build()
}

// settingsBuilder merges layers in order; earlier layers win.
type settingsBuilder struct {
	layers []Settings
	err    error
}

func newSettingsBuilder() *settingsBuilder {
	return &settingsBuilder{layers: make([]Settings, 0, 3)}
}

func (b *settingsBuilder) withEnv(environ map[string]string) *settingsBuilder {
	var s Settings
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("parse environment: %w", err))
		return b
	}
	b.layers = append(b.layers, s)
	return b
}

func (b *settingsBuilder) with(s Settings) *settingsBuilder {
	b.layers = append(b.layers, s)
	return b
}

func (b *settingsBuilder) withDefaults() *settingsBuilder {
	s, err := Defaults()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.layers = append(b.layers, s)
	return b
}

func (b *settingsBuilder) build() (Settings, error) {
	if b.err != nil {
		return Settings{}, fmt.Errorf("error occurred during building settings: %w", b.err)
	}

	var s Settings
	for _, layer := range b.layers {
		if err := mergo.Merge(&s, layer); err != nil {
			return Settings{}, fmt.Errorf("error merging settings: %w", err)
		}
	}

	s.TokensPath = expandHome(s.TokensPath)
	return s, s.validate()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s Settings) validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// OpenTokens reads the tokens file named by the settings.
func (s Settings) OpenTokens() (*Tokens, error) {
	return ReadTokens(s.TokensPath, s.Write())
}
