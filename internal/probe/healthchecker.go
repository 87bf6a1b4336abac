package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulbitspilani/mlopsgate/internal/inference"
)

// HealthChecker probes the serving stack's readiness endpoint and verifies
// the payload says the model is actually loaded.
type HealthChecker struct {
	Client *inference.Client
}

func (h *HealthChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	hs, err := h.Client.Health(ctx)
	latency := time.Since(start).Seconds() * 1000
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency, Transient: isTransient(err)}
	}
	if hs.Status != "healthy" || !hs.ModelLoaded {
		return CheckResult{
			Success:   false,
			Message:   fmt.Sprintf("service reports status=%q model_loaded=%v", hs.Status, hs.ModelLoaded),
			LatencyMS: latency,
		}
	}
	return CheckResult{Success: true, Message: "service is healthy, model loaded", LatencyMS: latency}
}
