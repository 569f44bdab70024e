package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

// fakeEnv points the CLI at a fresh fake API via environment variables.
func fakeEnv(t *testing.T) *fakeapi.Server {
	t.Helper()
	fake := fakeapi.New(fakeapi.Options{})
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	t.Setenv("REQUESTQA_BASE_URL", srv.URL)
	t.Setenv("REQUESTQA_EMAIL", fakeapi.SeedEmail)
	t.Setenv("REQUESTQA_PASSWORD", fakeapi.SeedPassword)
	t.Setenv("REQUESTQA_WEBHOOK_SECRET", fake.WebhookSecret())
	t.Setenv("REQUESTQA_HISTORY_DRIVER", "none")
	return fake
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut strings.Builder
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// clearLogEnv unsets every variable that influences the global log level.
func clearLogEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REQUESTQA_LOG_LEVEL", "REQUESTQA_DEBUG", "DEBUG"} {
		t.Setenv(k, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })
}

func TestCLI_RunWritesJSONReport(t *testing.T) {
	fakeEnv(t)
	path := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "run", "--format", "json", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "All checks passed.")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var sum harness.Summary
	require.NoError(t, json.Unmarshal(b, &sum))
	assert.Zero(t, sum.Failed)
	assert.Greater(t, sum.Passed, 50)
}

func TestCLI_RunFailsOnBadCredentials(t *testing.T) {
	fakeEnv(t)
	t.Setenv("REQUESTQA_PASSWORD", "wrong-password")

	out, err := execute(t, "run", "--group", "auth", "--group", "profile")
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "[auth]")
	assert.Contains(t, out, "[profile]")
}

func TestCLI_RunRejectsUnknownGroup(t *testing.T) {
	fakeEnv(t)
	_, err := execute(t, "run", "--group", "karaoke")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errChecksFailed)
}

func TestCLI_RunRecordsHistory(t *testing.T) {
	fakeEnv(t)
	t.Setenv("REQUESTQA_HISTORY_DRIVER", "sqlite")
	t.Setenv("REQUESTQA_HISTORY_DSN", filepath.Join(t.TempDir(), "history.db"))

	_, err := execute(t, "run", "--group", "auth", "--format", "tap")
	require.NoError(t, err)

	out, err := execute(t, "history", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "RUN")

	runID := strings.Fields(lines[1])[0]
	out, err = execute(t, "history", "show", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  auth: login")

	out, err = execute(t, "history", "flaky")
	require.NoError(t, err)
	assert.Contains(t, out, "No flaky checks")
}

func TestCLI_List(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "auth\n"))
	assert.Contains(t, out, "\n  login\n")
	assert.Contains(t, out, "pages\n")
}

func TestCLI_Login(t *testing.T) {
	fakeEnv(t)
	t.Setenv("REQUESTQA_AUDIENCE_DOMAIN", "requests.example.com")
	out, err := execute(t, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in: "+fakeapi.SeedSlug)
	assert.Contains(t, out, "Audience page: https://requests.example.com/"+fakeapi.SeedSlug+"\n")
}

func TestCLI_Loadtest(t *testing.T) {
	fakeEnv(t)
	out, err := execute(t, "loadtest", "--songs", "5", "--concurrency", "2", "--json")
	require.NoError(t, err)

	var rep struct {
		Total     int `json:"total"`
		Succeeded int `json:"succeeded"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 5, rep.Total)
	assert.Equal(t, 5, rep.Succeeded)
}

func TestCLI_Webhook(t *testing.T) {
	fakeEnv(t)
	out, err := execute(t, "webhook", "--type", "invoice.paid")
	require.NoError(t, err)
	assert.Contains(t, out, "HTTP 200")

	_, err = execute(t, "webhook", "--unsigned")
	assert.ErrorIs(t, err, errChecksFailed)
}

func TestCLI_MissingBaseURL(t *testing.T) {
	t.Setenv("REQUESTQA_BASE_URL", "")
	_, err := execute(t, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUESTQA_BASE_URL is required")
}

func TestCLI_GlobalLogLevel(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want zerolog.Level
	}{
		{name: "default", want: zerolog.InfoLevel},
		{name: "log level variable", env: map[string]string{"REQUESTQA_LOG_LEVEL": "debug"}, want: zerolog.DebugLevel},
		{name: "warn from variable", env: map[string]string{"REQUESTQA_LOG_LEVEL": "WARN"}, want: zerolog.WarnLevel},
		{name: "flag wins over variable", env: map[string]string{"REQUESTQA_LOG_LEVEL": "debug"}, args: []string{"--log-level", "error"}, want: zerolog.ErrorLevel},
		{name: "requestqa debug variable", env: map[string]string{"REQUESTQA_DEBUG": "true"}, want: zerolog.DebugLevel},
		{name: "plain debug variable", env: map[string]string{"DEBUG": "true"}, want: zerolog.DebugLevel},
		{name: "debug flag", args: []string{"--debug"}, want: zerolog.DebugLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearLogEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := execute(t, append([]string{"list"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, zerolog.GlobalLevel())
		})
	}
}

func TestCLI_DebugVariableDumpsHTTPTraffic(t *testing.T) {
	fakeEnv(t)
	clearLogEnv(t)
	t.Setenv("REQUESTQA_DEBUG", "true")

	_, stderr, err := executeWithStderr(t, "login")
	require.NoError(t, err)
	assert.Contains(t, stderr, "HTTP request")
	assert.Contains(t, stderr, "/api/auth/login")
	assert.Contains(t, stderr, "HTTP response")
}

func TestCLI_LoadtestPushesMetrics(t *testing.T) {
	fakeEnv(t)
	var (
		mu    sync.Mutex
		paths []string
		body  []byte
	)
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		body = b
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()
	t.Setenv("REQUESTQA_PUSHGATEWAY_URL", gw.URL)

	_, err := execute(t, "loadtest", "--songs", "3", "--concurrency", "2", "--push-job", "nightly-load")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /metrics/job/nightly-load"}, paths)
	assert.Contains(t, string(body), "requestqa_workqueue_submissions_total")
}
