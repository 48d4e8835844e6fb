// Command spess is a SpaceTraders shell. Without arguments it reads commands
// from stdin; otherwise it runs the given command and exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/spess/internal/repl"
	"github.com/Sternrassler/spess/pkg/client"
	"github.com/Sternrassler/spess/pkg/config"
	"github.com/Sternrassler/spess/pkg/logging"
	"github.com/Sternrassler/spess/pkg/metrics"
)

// options are the flags of the spess binary.
type options struct {
	settings    config.Settings
	debug       bool
	noWrite     bool
	metricsAddr string
	envFile     string
}

// explicit returns the settings given on the command line. Unset flags stay
// zero so the environment and defaults apply.
func (o *options) explicit(cmd *cobra.Command) config.Settings {
	s := o.settings
	if cmd.Flags().Changed("debug") {
		s.Debug = &o.debug
	}
	if cmd.Flags().Changed("no-write") {
		write := !o.noWrite
		s.TokensWrite = &write
	}
	return s
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "spess [command] [args...]",
		Short: "SpaceTraders client shell",
		Long: `spess talks to the SpaceTraders API.

Without a command it starts an interactive shell; type help for the list of
commands. Settings come from SPESS_* environment variables (also read from a
.env file), these flags, and defaults.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, opts.explicit(cmd), args, in, out)
		},
	}
	bindFlags(cmd, opts)
	return cmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	// everything after the first argument belongs to the shell command
	f.SetInterspersed(false)

	f.StringVar(&opts.settings.TokensPath, "tokens", "", "Tokens file (SPESS_TOKENS)")
	f.BoolVar(&opts.noWrite, "no-write", false, "Never write the tokens file")
	f.StringVar(&opts.settings.URL, "url", "", "API base URL (SPESS_URL)")
	f.StringVar(&opts.settings.AccountToken, "account", "", "Account token or its identifier (SPESS_ACCOUNT_TOKEN)")
	f.StringVar(&opts.settings.AgentToken, "agent", "", "Agent token or agent symbol (SPESS_AGENT_TOKEN)")
	f.StringVar(&opts.settings.RedisAddr, "redis", "", "Redis address for caching and shared rate limits (SPESS_REDIS_ADDR)")
	f.StringVar(&opts.settings.LogLevel, "log-level", "", "debug, info, warn or error (SPESS_LOG_LEVEL)")
	f.BoolVarP(&opts.debug, "debug", "d", false, "Log every request and response (SPESS_DEBUG)")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	f.StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before reading SPESS_* variables")
}

func run(ctx context.Context, opts *options, explicit config.Settings, args []string, in io.Reader, out io.Writer) error {
	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	settings, err := config.Load(explicit)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	if settings.DebugEnabled() {
		level = logging.LevelDebug
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logging.Setup(logCfg)
	logger := logging.NewLogger("spess")

	if opts.metricsAddr != "" {
		srv := metrics.NewServer(opts.metricsAddr)
		go func() {
			logger.Info().Str("addr", opts.metricsAddr).Msg("Serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	c, err := client.NewFromConfig(ctx, settings)
	if err != nil {
		return err
	}

	shell := repl.New(c, out)
	if len(args) > 0 {
		err := shell.Exec(ctx, args)
		if errors.Is(err, repl.ErrExit) {
			return nil
		}
		return err
	}
	return shell.Run(ctx, in)
}

// loadEnvFile loads path into the environment. A missing file is not an
// error; variables already set win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("spess failed")
		stop()
		os.Exit(1)
	}
}
