package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

const defaultListLimit = 20

var schema = []string{
	`CREATE TABLE IF NOT EXISTS qa_runs (
		run_id      TEXT PRIMARY KEY,
		base_url    TEXT NOT NULL,
		started_ns  BIGINT NOT NULL,
		elapsed_ns  BIGINT NOT NULL,
		total       INTEGER NOT NULL,
		passed      INTEGER NOT NULL,
		failed      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS qa_results (
		run_id      TEXT NOT NULL REFERENCES qa_runs(run_id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		grp         TEXT NOT NULL,
		scenario    TEXT NOT NULL,
		name        TEXT NOT NULL,
		success     INTEGER NOT NULL,
		message     TEXT NOT NULL,
		duration_ns BIGINT NOT NULL,
		at_ns       BIGINT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS qa_runs_started_idx ON qa_runs (started_ns)`,
}

// sqlStore implements Store on database/sql. Queries are written with "?"
// placeholders and rebound for drivers that number them.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

func newSQLStore(ctx context.Context, db *sql.DB, numbered bool) (*sqlStore, error) {
	s := &sqlStore{db: db, numbered: numbered}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("history schema: %w", err)
		}
	}
	return s, nil
}

func (s *sqlStore) q(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) SaveRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO qa_runs (run_id, base_url, started_ns, elapsed_ns, total, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.BaseURL, run.StartedAt.UnixNano(), int64(run.Elapsed), run.Total, run.Passed, run.Failed,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.q(`
		INSERT INTO qa_results (run_id, seq, grp, scenario, name, success, message, duration_ns, at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for i, r := range run.Results {
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.Group, r.Scenario, r.Name, boolInt(r.Success),
			r.Message, int64(r.Duration), r.At.UnixNano()); err != nil {
			return fmt.Errorf("insert result %d of run %s: %w", i, run.ID, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT run_id, base_url, started_ns, elapsed_ns, total, passed, failed
		FROM qa_runs ORDER BY started_ns DESC, run_id LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *sqlStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
		SELECT run_id, base_url, started_ns, elapsed_ns, total, passed, failed
		FROM qa_runs WHERE run_id = ?`), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT grp, scenario, name, success, message, duration_ns, at_ns
		FROM qa_results WHERE run_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			res         harness.Result
			success     int
			dur, atNano int64
		)
		if err := rows.Scan(&res.Group, &res.Scenario, &res.Name, &success, &res.Message, &dur, &atNano); err != nil {
			return nil, err
		}
		res.Success = success != 0
		res.Duration = time.Duration(dur)
		res.At = time.Unix(0, atNano).UTC()
		run.Results = append(run.Results, res)
	}
	return run, rows.Err()
}

func (s *sqlStore) FlakyChecks(ctx context.Context, lastN int) ([]FlakyCheck, error) {
	if lastN <= 0 {
		lastN = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT r.grp, r.name, SUM(r.success), COUNT(*)
		FROM qa_results r
		JOIN (SELECT run_id FROM qa_runs ORDER BY started_ns DESC, run_id LIMIT ?) recent
		  ON recent.run_id = r.run_id
		GROUP BY r.grp, r.name
		HAVING SUM(r.success) > 0 AND SUM(r.success) < COUNT(*)
		ORDER BY r.grp, r.name`), lastN)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []FlakyCheck
	for rows.Next() {
		var (
			fc            FlakyCheck
			passes, total int64
		)
		if err := rows.Scan(&fc.Group, &fc.Name, &passes, &total); err != nil {
			return nil, err
		}
		fc.Passes = int(passes)
		fc.Failures = int(total - passes)
		out = append(out, fc)
	}
	return out, rows.Err()
}

func (s *sqlStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r                  Run
		startedNS, elapsed int64
	)
	if err := sc.Scan(&r.ID, &r.BaseURL, &startedNS, &elapsed, &r.Total, &r.Passed, &r.Failed); err != nil {
		return nil, err
	}
	r.StartedAt = time.Unix(0, startedNS).UTC()
	r.Elapsed = time.Duration(elapsed)
	return &r, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
