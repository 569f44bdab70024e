// Package historytest holds the compliance suite every history.Store
// implementation must pass.
package historytest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
	"github.com/BryceLarsen/Requestwave-sub001/internal/history"
)

// Run exercises a store returned by makeStore. Runs are stamped newer than
// anything already stored and use a unique group, so a shared database works.
func Run(t *testing.T, makeStore func(t *testing.T) history.Store) {
	t.Helper()

	s := makeStore(t)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	group := "g-" + uuid.NewString()[:8]
	base := time.Now().UTC()
	result := func(name string, ok bool, at time.Time) harness.Result {
		return harness.Result{
			Group: group, Scenario: name, Name: name, Success: ok,
			Message: "HTTP 200", Duration: 15 * time.Millisecond, At: at,
		}
	}
	mkRun := func(offset time.Duration, results ...harness.Result) history.Run {
		run := history.NewRun("http://qa.test", harness.Summary{Started: base.Add(offset), Elapsed: 2 * time.Second, Results: results})
		for _, r := range results {
			run.Total++
			if r.Success {
				run.Passed++
			} else {
				run.Failed++
			}
		}
		return run
	}

	r1 := mkRun(0, result("login", true, base), result("me", true, base))
	r2 := mkRun(time.Millisecond, result("login", false, base.Add(time.Minute)), result("me", true, base.Add(time.Minute)))
	r3 := mkRun(2*time.Millisecond, result("login", true, base), result("me", true, base), result("qr", false, base))
	for _, r := range []history.Run{r1, r2, r3} {
		if err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun %s: %v", r.ID, err)
		}
	}
	if err := s.SaveRun(ctx, r1); err == nil {
		t.Fatalf("SaveRun duplicate id: expected error")
	}

	// ListRuns: newest first, no results attached.
	runs, err := s.ListRuns(ctx, 2)
	if err != nil || len(runs) != 2 {
		t.Fatalf("ListRuns: n=%d err=%v", len(runs), err)
	}
	if runs[0].ID != r3.ID || runs[1].ID != r2.ID {
		t.Fatalf("ListRuns order: got %s,%s want %s,%s", runs[0].ID, runs[1].ID, r3.ID, r2.ID)
	}
	if runs[0].Total != 3 || runs[0].Failed != 1 || len(runs[0].Results) != 0 {
		t.Fatalf("ListRuns row: %+v", runs[0])
	}

	// GetRun
	got, err := s.GetRun(ctx, r2.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.StartedAt.Equal(r2.StartedAt) || got.Elapsed != 2*time.Second || got.BaseURL != "http://qa.test" {
		t.Fatalf("GetRun header: %+v", got)
	}
	if len(got.Results) != 2 || got.Results[0].Name != "login" || got.Results[0].Success || !got.Results[1].Success {
		t.Fatalf("GetRun results: %+v", got.Results)
	}
	if got.Results[0].Duration != 15*time.Millisecond || !got.Results[0].At.Equal(base.Add(time.Minute)) {
		t.Fatalf("GetRun result timing: %+v", got.Results[0])
	}
	if _, err := s.GetRun(ctx, uuid.NewString()); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("GetRun unknown: want ErrNotFound, got %v", err)
	}

	// FlakyChecks: login flipped across the window; qr only ever failed.
	flaky := ownGroup(t, s, ctx, 3, group)
	if len(flaky) != 1 || flaky[0].Name != "login" || flaky[0].Passes != 2 || flaky[0].Failures != 1 {
		t.Fatalf("FlakyChecks(3): %+v", flaky)
	}
	if flaky := ownGroup(t, s, ctx, 1, group); len(flaky) != 0 {
		t.Fatalf("FlakyChecks(1): %+v", flaky)
	}
}

func ownGroup(t *testing.T, s history.Store, ctx context.Context, lastN int, group string) []history.FlakyCheck {
	t.Helper()
	all, err := s.FlakyChecks(ctx, lastN)
	if err != nil {
		t.Fatalf("FlakyChecks(%d): %v", lastN, err)
	}
	var out []history.FlakyCheck
	for _, fc := range all {
		if fc.Group == group {
			out = append(out, fc)
		}
	}
	return out
}
