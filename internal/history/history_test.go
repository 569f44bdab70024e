package history_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
	"github.com/BryceLarsen/Requestwave-sub001/internal/history"
	"github.com/BryceLarsen/Requestwave-sub001/internal/history/historytest"
)

func TestSQLiteStore_Compliance(t *testing.T) {
	historytest.Run(t, func(t *testing.T) history.Store {
		s, err := history.Open(context.Background(), history.DriverSQLite, filepath.Join(t.TempDir(), "runs", "history.db"))
		require.NoError(t, err)
		return s
	})
}

func TestPostgresStore_Compliance(t *testing.T) {
	dsn := os.Getenv("REQUESTQA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("REQUESTQA_TEST_POSTGRES_DSN not set; skipping postgres history test")
	}
	historytest.Run(t, func(t *testing.T) history.Store {
		s, err := history.Open(context.Background(), history.DriverPostgres, dsn)
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore_ReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := history.OpenSQLite(ctx, path)
	require.NoError(t, err)
	run := history.NewRun("http://qa.test", harness.Summary{Total: 1, Passed: 1, Started: time.Now()})
	require.NoError(t, s.SaveRun(ctx, run))
	require.NoError(t, s.Close())

	s, err = history.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestOpen_NoneAndUnknown(t *testing.T) {
	ctx := context.Background()

	s, err := history.Open(ctx, history.DriverNone, "")
	require.NoError(t, err)
	assert.NoError(t, s.SaveRun(ctx, history.Run{ID: "x"}))
	_, err = s.GetRun(ctx, "x")
	assert.ErrorIs(t, err, history.ErrNotFound)
	assert.NoError(t, s.Close())

	_, err = history.Open(ctx, "mysql", "dsn")
	assert.Error(t, err)
	_, err = history.Open(ctx, history.DriverSQLite, "")
	assert.Error(t, err)
	_, err = history.Open(ctx, history.DriverPostgres, "")
	assert.Error(t, err)
}

func TestNewRun_CopiesSummary(t *testing.T) {
	started := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	sum := harness.Summary{
		Total: 2, Passed: 1, Failed: 1, Started: started, Elapsed: time.Second,
		Results: []harness.Result{{Name: "a", Success: true}, {Name: "b"}},
	}
	run := history.NewRun("http://qa.test", sum)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, 1, run.Failed)
	assert.Len(t, run.Results, 2)
	assert.NotEqual(t, run.ID, history.NewRun("", sum).ID)
}
