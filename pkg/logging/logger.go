// Package logging configures the zerolog loggers used by the client and the
// spess binary.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel names a minimum severity.
type LogLevel string

// Levels accepted by Setup.
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config selects the level and format of the global logger.
type Config struct {
	Level LogLevel
	// Pretty writes colored console lines instead of JSON.
	Pretty bool
	// Output defaults to os.Stderr so logs never mix with shell output.
	Output io.Writer
}

// DefaultConfig is the setup of the spess binary: info level console output
// on stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Pretty: true, Output: os.Stderr}
}

// ParseLevel validates a level name as accepted by the SPESS_LOG_LEVEL setting.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

// Setup configures the global zerolog logger. Loggers from NewLogger copy the
// global logger, so Setup must run before clients are built.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(zerologLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// zerologLevel maps a level. Unknown levels log at info.
func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger returns the global logger tagged with a component field.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Request and response bodies (">>>" and "<<<", SPESS_DEBUG only)
//   - Cache hits and misses
//   - Rate limit state updates
//   - Waits on the shared rate limit window
//
// Info: Normal operation events
//   - Client ready, with agent and reset date
//   - Waiting for a ship to arrive or cool down
//   - Metrics server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Failed API calls (the error is returned as well)
//   - Retries after server or network errors
//   - Redis unavailable (local limiter only)
//   - Tokens file could not be saved
//
// Error: Error conditions requiring attention
//   - Startup failures in the spess binary
//
// Context Fields:
//   - component: spess-client, spess-repl, spess
//   - request_id: correlates ">>>" and "<<<" debug lines
//   - endpoint: route template such as /my/ships/{shipSymbol}
//   - status, code: HTTP status and SpaceTraders error code
//   - error_class: parse, client, rate_limit, server, network
//   - attempt, backoff: retry progress
//   - agent, reset_date: identity of the session
