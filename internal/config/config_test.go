package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REQUESTQA_BASE_URL", "https://api.example.com/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, FormatConsole, cfg.ReportFormat)
	assert.Equal(t, HistoryNone, cfg.HistoryDriver)
	assert.Equal(t, 10, cfg.LoadtestSongs)
	assert.Equal(t, 5, cfg.LoadtestConcurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REQUESTQA_BASE_URL", "http://localhost:8080")
	t.Setenv("REQUESTQA_GROUPS", "auth,songs")
	t.Setenv("REQUESTQA_REPORT_FORMAT", "JUnit")
	t.Setenv("REQUESTQA_HTTP_TIMEOUT", "5s")
	t.Setenv("REQUESTQA_RETRY_ATTEMPTS", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "songs"}, cfg.Groups)
	assert.Equal(t, FormatJUnit, cfg.ReportFormat)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.RetryAttempts)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qa.env")
	content := "REQUESTQA_BASE_URL=http://from-file\nREQUESTQA_EMAIL=file@example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("REQUESTQA_BASE_URL", "http://from-env")
	// godotenv sets variables in the process; make sure the test cleans up.
	t.Setenv("REQUESTQA_EMAIL", "")
	require.NoError(t, os.Unsetenv("REQUESTQA_EMAIL"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.BaseURL)
	assert.Equal(t, "file@example.com", cfg.Email)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, true},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://x" }, true},
		{"unknown format", func(c *Config) { c.ReportFormat = "xml" }, true},
		{"unknown driver", func(c *Config) { c.HistoryDriver = "mysql" }, true},
		{"sqlite without dsn", func(c *Config) { c.HistoryDriver = HistorySQLite }, true},
		{"sqlite with dsn", func(c *Config) { c.HistoryDriver = HistorySQLite; c.HistoryDSN = "file:x.db" }, false},
		{"negative retries", func(c *Config) { c.RetryAttempts = -1 }, true},
		{"zero concurrency", func(c *Config) { c.LoadtestConcurrency = 0 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewForTesting("http://localhost:8080")
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAudienceURL(t *testing.T) {
	cfg := NewForTesting("https://api.example.com")
	assert.Equal(t, "https://api.example.com/the-band", cfg.AudienceURL("the-band"))
	cfg.AudienceDomain = "requests.example.com"
	assert.Equal(t, "https://requests.example.com/the-band", cfg.AudienceURL("the-band"))
}
