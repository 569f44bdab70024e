package harness

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Result is one recorded check.
type Result struct {
	Group    string        `json:"group"`
	Scenario string        `json:"scenario"`
	Name     string        `json:"name"`
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	At       time.Time     `json:"at"`
}

// Recorder accumulates pass/fail results. It is safe for concurrent use.
type Recorder struct {
	log zerolog.Logger

	mu       sync.Mutex
	group    string
	scenario string
	mark     time.Time
	started  time.Time
	results  []Result
	passed   int
	failed   int
	errors   []string
}

// NewRecorder returns an empty Recorder that logs each result to log.
func NewRecorder(log zerolog.Logger) *Recorder {
	now := time.Now()
	return &Recorder{log: log, mark: now, started: now}
}

// enter tags subsequent results with group and scenario.
func (r *Recorder) enter(group, scenario string) {
	r.mu.Lock()
	r.group, r.scenario = group, scenario
	r.mark = time.Now()
	r.mu.Unlock()
}

// LogResult records one check. A success increments Passed by one; a failure
// increments Failed by one and appends "<name>: <message>" to Errors.
func (r *Recorder) LogResult(name string, success bool, message string) {
	now := time.Now()

	r.mu.Lock()
	res := Result{
		Group:    r.group,
		Scenario: r.scenario,
		Name:     name,
		Success:  success,
		Message:  message,
		Duration: now.Sub(r.mark),
		At:       now,
	}
	r.mark = now
	r.results = append(r.results, res)
	if success {
		r.passed++
	} else {
		r.failed++
		r.errors = append(r.errors, fmt.Sprintf("%s: %s", name, message))
	}
	r.mu.Unlock()

	checksTotal.WithLabelValues(res.Group, outcome(success)).Inc()

	if success {
		r.log.Info().Str("group", res.Group).Str("check", name).Str("message", message).Msg("PASS")
	} else {
		r.log.Warn().Str("group", res.Group).Str("check", name).Str("message", message).Msg("FAIL")
	}
}

// Passed returns the number of successful checks.
func (r *Recorder) Passed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passed
}

// Failed returns the number of failed checks.
func (r *Recorder) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Errors returns a copy of the failure messages in recording order.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Results returns a copy of every recorded result.
func (r *Recorder) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

// Summary snapshots the recorder.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Total:   r.passed + r.failed,
		Passed:  r.passed,
		Failed:  r.failed,
		Errors:  append([]string(nil), r.errors...),
		Results: append([]Result(nil), r.results...),
		Started: r.started,
		Elapsed: time.Since(r.started),
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Passed) / float64(s.Total) * 100
	}
	for _, res := range r.results {
		if res.Success {
			continue
		}
		if s.FailuresByGroup == nil {
			s.FailuresByGroup = make(map[string][]string)
		}
		s.FailuresByGroup[res.Group] = append(s.FailuresByGroup[res.Group], fmt.Sprintf("%s: %s", res.Name, res.Message))
	}
	return s
}

// Summary is the outcome of a run.
type Summary struct {
	Total           int                 `json:"total"`
	Passed          int                 `json:"passed"`
	Failed          int                 `json:"failed"`
	SuccessRate     float64             `json:"success_rate"`
	Errors          []string            `json:"errors"`
	FailuresByGroup map[string][]string `json:"failures_by_group,omitempty"`
	Results         []Result            `json:"results"`
	Started         time.Time           `json:"started"`
	Elapsed         time.Duration       `json:"elapsed_ns"`
}

// Groups returns the groups that produced results, in first-seen order.
func (s Summary) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.Results {
		if !seen[r.Group] {
			seen[r.Group] = true
			out = append(out, r.Group)
		}
	}
	return out
}

// FailedGroups returns the groups with at least one failure, sorted.
func (s Summary) FailedGroups() []string {
	out := make([]string, 0, len(s.FailuresByGroup))
	for g := range s.FailuresByGroup {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ExitCode is 0 when nothing failed and 1 otherwise.
func ExitCode(s Summary) int {
	if s.Failed == 0 {
		return 0
	}
	return 1
}

func outcome(success bool) string {
	if success {
		return "pass"
	}
	return "fail"
}
