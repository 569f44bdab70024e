package report

import (
	"encoding/json"
	"io"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

// WriteJSON emits the full summary, results included, as indented JSON.
func WriteJSON(w io.Writer, sum harness.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
