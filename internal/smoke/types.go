package smoke

import "time"

type Kind string

const (
	KindHealth       Kind = "health"
	KindFunctional   Kind = "functional"
	KindMetrics      Kind = "metrics"
	KindAvailability Kind = "availability"
)

// CheckSpec declares one probe of the deployed stack. Required checks gate
// the deploy; optional ones only show up in the report.
type CheckSpec struct {
	Name     string        `json:"name"`
	Target   string        `json:"target"`
	Kind     Kind          `json:"kind"`
	Timeout  time.Duration `json:"timeout"`
	Retries  int           `json:"retries"`
	Required bool          `json:"required"`
}

// CheckResult is the immutable outcome of one CheckSpec execution.
type CheckResult struct {
	Name      string    `json:"name"`
	Passed    bool      `json:"passed"`
	Skipped   bool      `json:"skipped,omitempty"`
	Message   string    `json:"message"`
	LatencyMS float64   `json:"latency_ms,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RunReport is the aggregate verdict of one runner invocation.
type RunReport struct {
	ID            string        `json:"id"`
	BaseURL       string        `json:"base_url"`
	StartedAt     time.Time     `json:"started_at"`
	Results       []CheckResult `json:"results"`
	Total         int           `json:"total"`
	PassedCount   int           `json:"passed_count"`
	FailedCount   int           `json:"failed_count"`
	SkippedCount  int           `json:"skipped_count"`
	OverallPassed bool          `json:"overall_passed"`
}
