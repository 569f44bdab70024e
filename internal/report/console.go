package report

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

const rule = "============================================================"

// WriteConsole prints the human summary: counts, success rate and the
// failures grouped by scenario group.
func WriteConsole(w io.Writer, sum harness.Summary) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf(p, "%s\n", rule)
	ew.printf(p, "Requestwave QA summary\n")
	ew.printf(p, "%s\n", rule)
	ew.printf(p, "Total checks:  %d\n", sum.Total)
	ew.printf(p, "Passed:        %d\n", sum.Passed)
	ew.printf(p, "Failed:        %d\n", sum.Failed)
	ew.printf(p, "Success rate:  %.1f%%\n", sum.SuccessRate)
	ew.printf(p, "Elapsed:       %s\n", sum.Elapsed.Round(time.Millisecond))

	if sum.Failed == 0 {
		ew.printf(p, "\nAll checks passed.\n")
		return ew.err
	}

	ew.printf(p, "\nFailures:\n")
	for _, g := range sum.FailedGroups() {
		msgs := sum.FailuresByGroup[g]
		ew.printf(p, "  [%s] %d failed\n", g, len(msgs))
		for _, m := range msgs {
			ew.printf(p, "    - %s\n", m)
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(p *message.Printer, format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = p.Fprintf(e.w, format, args...)
}
