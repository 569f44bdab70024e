// Package report renders a run summary for people and CI systems.
package report

import (
	"fmt"
	"io"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

// Output formats.
const (
	Console = "console"
	JSON    = "json"
	JUnit   = "junit"
	TAP     = "tap"
)

// Formats lists every supported output format.
func Formats() []string { return []string{Console, JSON, JUnit, TAP} }

// Write renders sum to w in format.
func Write(w io.Writer, format string, sum harness.Summary) error {
	switch format {
	case Console, "":
		return WriteConsole(w, sum)
	case JSON:
		return WriteJSON(w, sum)
	case JUnit:
		return WriteJUnit(w, sum)
	case TAP:
		return WriteTAP(w, sum)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// checkName is the label a result carries outside the console report.
func checkName(r harness.Result) string {
	return r.Group + ": " + r.Name
}
