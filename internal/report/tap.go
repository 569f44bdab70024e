package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

type tapDiagnostic struct {
	Message  string `yaml:"message"`
	Group    string `yaml:"group"`
	Scenario string `yaml:"scenario"`
	Duration string `yaml:"duration"`
}

// WriteTAP emits TAP version 13. Failed checks carry a YAML diagnostic block.
func WriteTAP(w io.Writer, sum harness.Summary) error {
	var b strings.Builder
	b.WriteString("TAP version 13\n")
	fmt.Fprintf(&b, "1..%d\n", len(sum.Results))
	for i, r := range sum.Results {
		if r.Success {
			fmt.Fprintf(&b, "ok %d - %s\n", i+1, tapEscape(checkName(r)))
			continue
		}
		fmt.Fprintf(&b, "not ok %d - %s\n", i+1, tapEscape(checkName(r)))
		diag, err := yaml.Marshal(tapDiagnostic{
			Message:  r.Message,
			Group:    r.Group,
			Scenario: r.Scenario,
			Duration: r.Duration.String(),
		})
		if err != nil {
			return err
		}
		b.WriteString("  ---\n")
		for _, line := range strings.Split(strings.TrimRight(string(diag), "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("  ...\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// tapEscape keeps a description from being read as a directive.
func tapEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "#", "\\#")
	return strings.ReplaceAll(s, "\n", " ")
}
