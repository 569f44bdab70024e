// Package history persists run summaries so flaky checks can be spotted
// across runs. SQLite and PostgreSQL back the same Store interface.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

// Driver names accepted by Open.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned by GetRun for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one stored harness run. Results is only populated by GetRun.
type Run struct {
	ID        string
	BaseURL   string
	StartedAt time.Time
	Elapsed   time.Duration
	Total     int
	Passed    int
	Failed    int
	Results   []harness.Result
}

// FlakyCheck is a check that both passed and failed within a window of runs.
type FlakyCheck struct {
	Group    string
	Name     string
	Passes   int
	Failures int
}

// Store persists runs.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	FlakyChecks(ctx context.Context, lastN int) ([]FlakyCheck, error)
	Close() error
}

// NewRun converts a run summary into a storable Run with a fresh id.
func NewRun(baseURL string, sum harness.Summary) Run {
	return Run{
		ID:        uuid.NewString(),
		BaseURL:   baseURL,
		StartedAt: sum.Started,
		Elapsed:   sum.Elapsed,
		Total:     sum.Total,
		Passed:    sum.Passed,
		Failed:    sum.Failed,
		Results:   sum.Results,
	}
}

// Open returns the Store for driver. "none" (or "") yields a store that
// keeps nothing.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverNone, "":
		return nopStore{}, nil
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown history driver %q", driver)
	}
}

type nopStore struct{}

func (nopStore) SaveRun(context.Context, Run) error                     { return nil }
func (nopStore) ListRuns(context.Context, int) ([]Run, error)           { return nil, nil }
func (nopStore) GetRun(context.Context, string) (*Run, error)           { return nil, ErrNotFound }
func (nopStore) FlakyChecks(context.Context, int) ([]FlakyCheck, error) { return nil, nil }
func (nopStore) Close() error                                           { return nil }
