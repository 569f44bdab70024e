// Package harness runs named scenarios against the API and keeps the
// pass/fail ledger.
//
// Scenarios run strictly one after another; state that later scenarios need
// (created ids, the musician slug) travels on the Session. RunAll never lets
// a scenario's error or panic escape: each becomes one failed result.
package harness

import (
	"context"
	"fmt"
	"time"
)

// ScenarioFunc is the body of a scenario.
type ScenarioFunc func(ctx context.Context, s *Session) error

// Scenario is a named step belonging to a group.
type Scenario struct {
	Group string
	Name  string
	Run   ScenarioFunc
}

// Suite is an ordered list of scenarios.
type Suite struct {
	scenarios []Scenario
}

// NewSuite returns a suite running scenarios in the given order.
func NewSuite(scenarios ...Scenario) *Suite {
	return &Suite{scenarios: append([]Scenario(nil), scenarios...)}
}

// Add appends scenarios.
func (s *Suite) Add(scenarios ...Scenario) {
	s.scenarios = append(s.scenarios, scenarios...)
}

// Scenarios returns the scenarios in run order.
func (s *Suite) Scenarios() []Scenario {
	return append([]Scenario(nil), s.scenarios...)
}

// Groups returns group names in first-seen order.
func (s *Suite) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, sc := range s.scenarios {
		if !seen[sc.Group] {
			seen[sc.Group] = true
			out = append(out, sc.Group)
		}
	}
	return out
}

// Filter returns a suite holding only the named groups, keeping run order.
// No groups means all of them. Unknown group names are reported as an error.
func (s *Suite) Filter(groups ...string) (*Suite, error) {
	if len(groups) == 0 {
		return NewSuite(s.scenarios...), nil
	}
	known := make(map[string]bool)
	for _, g := range s.Groups() {
		known[g] = true
	}
	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		if !known[g] {
			return nil, fmt.Errorf("unknown scenario group %q", g)
		}
		want[g] = true
	}
	out := &Suite{}
	for _, sc := range s.scenarios {
		if want[sc.Group] {
			out.scenarios = append(out.scenarios, sc)
		}
	}
	return out, nil
}

// RunAll executes every scenario in order and returns the session
// recorder's summary. Once ctx is done the remaining scenarios are recorded
// as failed without running.
func (s *Suite) RunAll(ctx context.Context, sess *Session) Summary {
	rec := sess.Recorder()
	for _, sc := range s.scenarios {
		rec.enter(sc.Group, sc.Name)
		if err := ctx.Err(); err != nil {
			rec.LogResult(sc.Name, false, fmt.Sprintf("not run: %v", err))
			continue
		}

		sess.Log.Debug().Str("group", sc.Group).Str("scenario", sc.Name).Msg("scenario start")
		start := time.Now()
		if err := runScenario(ctx, sess, sc); err != nil {
			rec.LogResult(sc.Name, false, err.Error())
		}
		scenarioDuration.WithLabelValues(sc.Group).Observe(time.Since(start).Seconds())
	}
	return rec.Summary()
}

// runScenario calls sc.Run, converting a panic into an error.
func runScenario(ctx context.Context, sess *Session, sc Scenario) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			sess.Log.Error().Stack().Err(err).Str("scenario", sc.Name).Msg("scenario panic")
		}
	}()
	if sc.Run == nil {
		return fmt.Errorf("scenario %s has no body", sc.Name)
	}
	return sc.Run(ctx, sess)
}
