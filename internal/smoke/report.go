package smoke

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Render writes the human-readable report: one line per check, then the
// summary line. The full report is always emitted, pass or fail.
func (r *RunReport) Render(w io.Writer) {
	fmt.Fprintf(w, "Deployment smoke tests: %s\n", r.BaseURL)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, res := range r.Results {
		marker := "FAIL"
		switch {
		case res.Skipped:
			marker = "SKIP"
		case res.Passed:
			marker = "PASS"
		}
		if res.LatencyMS > 0 {
			fmt.Fprintf(w, "%s %s: %s (%.1fms)\n", marker, res.Name, res.Message, res.LatencyMS)
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", marker, res.Name, res.Message)
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Overall: %d/%d passed, %d failed, %d skipped\n",
		r.PassedCount, r.Total, r.FailedCount, r.SkippedCount)
	if r.OverallPassed {
		fmt.Fprintln(w, "All required checks passed. Deployment looks good.")
	} else {
		fmt.Fprintln(w, "Required checks failed. Check the deployment.")
	}
}

// RenderJSON writes the machine-readable form.
func (r *RunReport) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
