package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

// Render writes the human-readable performance report.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, "Model Performance Report")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	if r.InsufficientData {
		fmt.Fprintln(w, "insufficient data: no sample scored successfully")
		fmt.Fprintln(w, "no snapshot stored, drift not computed")
		return
	}

	s := r.Snapshot
	fmt.Fprintf(w, "Samples: %d scored, %d failed\n", s.SampleCount, s.ErrorCount)
	fmt.Fprintf(w, "Accuracy: %.2f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Mean confidence: %.3f\n", s.MeanConfidence)

	if len(s.PerClassAccuracy) > 0 {
		fmt.Fprintln(w, "Per-class accuracy:")
		classes := make([]string, 0, len(s.PerClassAccuracy))
		for c := range s.PerClassAccuracy {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			fmt.Fprintf(w, "  %-10s %.2f%% (%d samples)\n", c, s.PerClassAccuracy[c]*100, s.PerClassCounts[c])
		}
	}

	fmt.Fprintf(w, "Confidence histogram (10 buckets over [0,1]): %v\n", s.ConfidenceHistogram)

	switch {
	case r.FirstRun:
		fmt.Fprintln(w, strings.Repeat("-", 50))
		fmt.Fprintln(w, "First snapshot stored; it becomes the baseline. No drift computed.")
	case r.Baseline != nil:
		fmt.Fprintln(w, strings.Repeat("-", 50))
		fmt.Fprintf(w, "Drift vs baseline %s (%s):\n", r.Baseline.ID, r.Baseline.Timestamp.Format("2006-01-02 15:04:05"))
		for _, v := range r.Verdicts {
			fmt.Fprintf(w, "%s %s\n", driftMarker(v), verdictLine(v))
		}
		if r.Drifted {
			fmt.Fprintln(w, "Model drift detected! Consider retraining.")
		} else {
			fmt.Fprintln(w, "No significant model drift detected.")
		}
	}
}

// RenderJSON writes the machine-readable form.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func driftMarker(v domain.DriftVerdict) string {
	if v.Drifted {
		return "DRIFT"
	}
	return "OK   "
}

func verdictLine(v domain.DriftVerdict) string {
	name := v.Metric
	if v.Class != "" {
		name = fmt.Sprintf("%s[%s]", v.Metric, v.Class)
	}
	return fmt.Sprintf("%s: %.3f -> %.3f (delta %+.3f, threshold %.3f)",
		name, v.BaselineValue, v.CurrentValue, v.Delta, v.Threshold)
}
