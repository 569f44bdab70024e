// Package config loads harness settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is prepended to every variable, e.g. REQUESTQA_BASE_URL.
const Prefix = "REQUESTQA"

// Report formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatJUnit   = "junit"
	FormatTAP     = "tap"
)

// History drivers.
const (
	HistoryNone     = "none"
	HistorySQLite   = "sqlite"
	HistoryPostgres = "postgres"
)

// Config holds everything a run needs.
type Config struct {
	BaseURL        string `envconfig:"BASE_URL"`
	Email          string `envconfig:"EMAIL"`
	Password       string `envconfig:"PASSWORD"`
	AudienceDomain string `envconfig:"AUDIENCE_DOMAIN"`

	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"0"`
	Debug         bool          `envconfig:"DEBUG" default:"false"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`

	ReportFormat string   `envconfig:"REPORT_FORMAT" default:"console"`
	ReportPath   string   `envconfig:"REPORT_PATH"`
	Groups       []string `envconfig:"GROUPS"`

	HistoryDriver string `envconfig:"HISTORY_DRIVER" default:"none"`
	HistoryDSN    string `envconfig:"HISTORY_DSN"`

	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
	WebhookSecret  string `envconfig:"WEBHOOK_SECRET"`

	LoadtestSongs       int `envconfig:"LOADTEST_SONGS" default:"10"`
	LoadtestConcurrency int `envconfig:"LOADTEST_CONCURRENCY" default:"5"`
}

// Load reads envFile (when non-empty, or ".env" when present) and then the
// environment. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.ReportFormat = strings.ToLower(cfg.ReportFormat)
	cfg.HistoryDriver = strings.ToLower(cfg.HistoryDriver)

	log.Debug().
		Str("base_url", cfg.BaseURL).
		Bool("credentials_present", cfg.Email != "" && cfg.Password != "").
		Str("report_format", cfg.ReportFormat).
		Str("history_driver", cfg.HistoryDriver).
		Strs("groups", cfg.Groups).
		Msg("Configuration loaded")
	return &cfg, nil
}

// LoadEnvFile loads envFile, or ".env" when envFile is empty and the file
// exists, into the process environment without overriding set variables.
func LoadEnvFile(envFile string) error {
	return loadDotEnv(envFile)
}

func loadDotEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}

// Validate checks the settings a scenario run depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s_BASE_URL is required", Prefix))
	} else if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("%s_BASE_URL must start with http:// or https://", Prefix))
	}
	switch c.ReportFormat {
	case FormatConsole, FormatJSON, FormatJUnit, FormatTAP:
	default:
		errs = append(errs, fmt.Errorf("unsupported REPORT_FORMAT: %s", c.ReportFormat))
	}
	switch c.HistoryDriver {
	case HistoryNone, "":
	case HistorySQLite, HistoryPostgres:
		if c.HistoryDSN == "" {
			errs = append(errs, fmt.Errorf("HISTORY_DSN is required for driver %s", c.HistoryDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported HISTORY_DRIVER: %s", c.HistoryDriver))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be > 0"))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, errors.New("RETRY_ATTEMPTS must be >= 0"))
	}
	if c.LoadtestSongs <= 0 || c.LoadtestConcurrency <= 0 {
		errs = append(errs, errors.New("LOADTEST_SONGS and LOADTEST_CONCURRENCY must be > 0"))
	}
	return errors.Join(errs...)
}

// HasCredentials reports whether login credentials were supplied.
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// AudienceURL returns the public request page for slug. It falls back to the
// API host when no audience domain is configured.
func (c *Config) AudienceURL(slug string) string {
	host := c.AudienceDomain
	if host == "" {
		host = c.BaseURL
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/") + "/" + slug
}

// NewForTesting returns a valid config pointed at baseURL.
func NewForTesting(baseURL string) *Config {
	return &Config{
		BaseURL:             baseURL,
		Email:               "musician@example.com",
		Password:            "password123",
		HTTPTimeout:         5 * time.Second,
		LogLevel:            "info",
		ReportFormat:        FormatConsole,
		HistoryDriver:       HistoryNone,
		WebhookSecret:       "whsec_test",
		LoadtestSongs:       10,
		LoadtestConcurrency: 5,
	}
}
