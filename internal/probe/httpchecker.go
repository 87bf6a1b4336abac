package probe

import (
	"context"
	"net/http"
	"time"
)

// HTTPChecker is a bare reachability probe: the target is up when it
// answers with a non-server-error status.
type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Success: false, Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency, Transient: isTransient(err)}
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 400
	return CheckResult{
		Success:    success,
		Message:    resp.Status,
		LatencyMS:  latency,
		StatusCode: resp.StatusCode,
	}
}
