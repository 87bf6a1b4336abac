package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/common/expfmt"
)

// MetricsChecker fetches the metrics endpoint and verifies the exposition
// actually parses and contains the expected metric family, instead of just
// grepping the body.
type MetricsChecker struct {
	Client     *http.Client
	MetricName string
}

func NewMetricsChecker(timeout time.Duration, metricName string) *MetricsChecker {
	return &MetricsChecker{
		Client:     &http.Client{Timeout: timeout},
		MetricName: metricName,
	}
}

func (m *MetricsChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Success: false, Message: err.Error()}
	}
	resp, err := m.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency, Transient: isTransient(err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return CheckResult{
			Success:    false,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
			LatencyMS:  latency,
			StatusCode: resp.StatusCode,
		}
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return CheckResult{
			Success:    false,
			Message:    fmt.Sprintf("exposition parse: %v", err),
			LatencyMS:  latency,
			StatusCode: resp.StatusCode,
		}
	}
	if _, ok := families[m.MetricName]; !ok {
		return CheckResult{
			Success:    false,
			Message:    fmt.Sprintf("metric family %q not found (%d families exposed)", m.MetricName, len(families)),
			LatencyMS:  latency,
			StatusCode: resp.StatusCode,
		}
	}
	return CheckResult{
		Success:    true,
		Message:    fmt.Sprintf("metrics exposed (%d families, %q present)", len(families), m.MetricName),
		LatencyMS:  latency,
		StatusCode: resp.StatusCode,
	}
}
