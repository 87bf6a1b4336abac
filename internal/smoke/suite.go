package smoke

import (
	"time"

	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/config"
	"github.com/abdulbitspilani/mlopsgate/internal/inference"
	"github.com/abdulbitspilani/mlopsgate/internal/probe"
)

// BuildSuite assembles the deployment battery from configuration: health,
// functional prediction and metrics checks against the model API, then the
// auxiliary service reachability checks in declared order.
func BuildSuite(cfg *config.Config) []CheckSpec {
	base := cfg.API.BaseURL
	specs := []CheckSpec{
		{Name: "health", Target: base + "/health", Kind: KindHealth, Timeout: cfg.API.Timeout, Retries: cfg.Smoke.RetryAttempts, Required: true},
		{Name: "predict", Target: base + "/predict", Kind: KindFunctional, Timeout: cfg.API.Timeout, Retries: cfg.Smoke.RetryAttempts, Required: true},
		{Name: "metrics", Target: base + "/metrics", Kind: KindMetrics, Timeout: cfg.API.Timeout, Retries: cfg.Smoke.RetryAttempts, Required: true},
	}
	for _, svc := range cfg.Smoke.Services {
		timeout := svc.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		specs = append(specs, CheckSpec{
			Name:     svc.Name,
			Target:   svc.URL,
			Kind:     KindAvailability,
			Timeout:  timeout,
			Retries:  1,
			Required: svc.Required,
		})
	}
	return specs
}

// BuildCheckers wires one checker per check kind against the configured stack.
func BuildCheckers(cfg *config.Config, client *inference.Client, log *zap.Logger) map[Kind]probe.Checker {
	return map[Kind]probe.Checker{
		KindHealth: &probe.HealthChecker{Client: client},
		KindFunctional: &probe.PredictChecker{
			Client:        client,
			Asset:         cfg.Smoke.Asset,
			ExpectedLabel: cfg.Smoke.ExpectedLabel,
			Classes:       cfg.Smoke.Classes,
			Logger:        log,
		},
		KindMetrics:      probe.NewMetricsChecker(cfg.API.Timeout, cfg.Smoke.MetricName),
		KindAvailability: probe.NewHTTPChecker(cfg.API.Timeout),
	}
}
