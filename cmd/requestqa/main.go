package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/config"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
	"github.com/BryceLarsen/Requestwave-sub001/internal/platform/logger"
)

// errChecksFailed makes the process exit 1 without an extra error log.
var errChecksFailed = errors.New("one or more checks failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errChecksFailed) {
			log.Error().Stack().Err(err).Msg("command failed")
		}
		stop()
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every sub-command.
type globals struct {
	envFile  string
	baseURL  string
	format   string
	output   string
	groups   []string
	debug    bool
	logLevel string
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "requestqa",
		Short:         "Black-box QA harness for the Requestwave API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = logger.NewConsole(cmd.ErrOrStderr())

			// A missing --env-file is reported when the command loads its config.
			_ = config.LoadEnvFile(g.envFile)
			if client.DebugLoggingRequested() {
				g.debug = true
			}
			level := g.logLevel
			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv(config.Prefix + "_LOG_LEVEL"); v != "" {
					level = v
				}
			}

			if g.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(logger.ParseLevel(level))
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.envFile, "env-file", "", "Load settings from this .env file (default .env when present)")
	pf.StringVar(&g.baseURL, "base-url", "", "API base URL (overrides REQUESTQA_BASE_URL)")
	pf.StringVarP(&g.format, "format", "f", "", "Report format: console, json, junit or tap")
	pf.StringVarP(&g.output, "output", "o", "", "Write the report to this file instead of stdout")
	pf.StringSliceVarP(&g.groups, "group", "g", nil, "Only run these scenario groups (repeatable)")
	pf.BoolVarP(&g.debug, "debug", "d", false, "Enable verbose debug output, including HTTP dumps")
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newLoginCmd(g))
	rootCmd.AddCommand(newLoadtestCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))
	rootCmd.AddCommand(newWebhookCmd(g))
	rootCmd.AddCommand(newFakeServerCmd())

	return rootCmd
}

// config loads settings and applies flag overrides.
func (g *globals) config() (*config.Config, error) {
	cfg, err := config.Load(g.envFile)
	if err != nil {
		return nil, err
	}
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	if g.format != "" {
		cfg.ReportFormat = g.format
	}
	if g.output != "" {
		cfg.ReportPath = g.output
	}
	if len(g.groups) > 0 {
		cfg.Groups = g.groups
	}
	if g.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config) (*client.Client, error) {
	return client.New(cfg.BaseURL,
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithRetry(cfg.RetryAttempts),
		client.WithDebugLogging(cfg.Debug),
	)
}

// login returns a client holding a session for the configured musician.
func login(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	if !cfg.HasCredentials() {
		return nil, errors.New("REQUESTQA_EMAIL and REQUESTQA_PASSWORD are required")
	}
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	defer cancel()
	start := time.Now()
	if _, err := c.Login(ctx, cfg.Email, cfg.Password); err != nil {
		_ = c.Close()
		return nil, err
	}
	id := c.Identity()
	log.Debug().
		Str("musician_id", id.MusicianID).
		Str("slug", id.Slug).
		Dur("elapsed", time.Since(start)).
		Msg("login completed")
	return c, nil
}

func sessionParams(cfg *config.Config) harness.Params {
	return harness.Params{
		BaseURL:        cfg.BaseURL,
		Email:          cfg.Email,
		Password:       cfg.Password,
		AudienceDomain: cfg.AudienceDomain,
		WebhookSecret:  cfg.WebhookSecret,
	}
}
