package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/probe"
)

// ErrNoChecks means the runner was handed nothing to do; that is a
// configuration problem, not a failing deployment.
var ErrNoChecks = errors.New("smoke: no checks configured")

// Runner executes a fixed, ordered battery of checks and renders a single
// gating verdict. Probes run strictly sequentially in declared order.
type Runner struct {
	Logger   *zap.Logger
	Checkers map[Kind]probe.Checker
	Backoff  time.Duration
	FailFast bool
	BaseURL  string
}

// Run executes every spec in order and assembles the RunReport. Network
// errors, bad payloads and timeouts all become failed CheckResults; only an
// empty spec list or an unknown check kind comes back as an error.
func (r *Runner) Run(ctx context.Context, specs []CheckSpec) (*RunReport, error) {
	if len(specs) == 0 {
		return nil, ErrNoChecks
	}
	for _, spec := range specs {
		if _, ok := r.Checkers[spec.Kind]; !ok {
			return nil, fmt.Errorf("smoke: check %q has unknown kind %q", spec.Name, spec.Kind)
		}
	}

	report := &RunReport{
		ID:        uuid.NewString(),
		BaseURL:   r.BaseURL,
		StartedAt: time.Now().UTC(),
		Total:     len(specs),
	}

	shortCircuit := false
	for _, spec := range specs {
		if shortCircuit {
			report.Results = append(report.Results, CheckResult{
				Name:      spec.Name,
				Skipped:   true,
				Message:   "skipped: earlier required check failed (fail-fast)",
				Timestamp: time.Now().UTC(),
			})
			continue
		}
		res := r.runOne(ctx, spec)
		report.Results = append(report.Results, res)

		r.Logger.Info("smoke_check_done",
			zap.String("check", spec.Name),
			zap.Bool("passed", res.Passed),
			zap.Bool("skipped", res.Skipped),
			zap.Bool("required", spec.Required),
			zap.Float64("latency_ms", res.LatencyMS),
			zap.String("message", res.Message),
		)

		if r.FailFast && spec.Required && !res.Passed && !res.Skipped {
			shortCircuit = true
		}
	}

	report.OverallPassed = true
	for i, res := range report.Results {
		switch {
		case res.Skipped:
			report.SkippedCount++
		case res.Passed:
			report.PassedCount++
		default:
			report.FailedCount++
		}
		if specs[i].Required && !res.Passed {
			report.OverallPassed = false
		}
	}
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, spec CheckSpec) CheckResult {
	// spec.Timeout bounds each attempt, not the whole retry loop, so a
	// timed-out attempt is retryable like any other transient failure.
	chk := &probe.RetryChecker{
		Inner:          r.Checkers[spec.Kind],
		Attempts:       spec.Retries,
		Backoff:        r.Backoff,
		AttemptTimeout: spec.Timeout,
	}

	out := chk.Check(ctx, spec.Target)

	res := CheckResult{
		Name:      spec.Name,
		Passed:    out.Success,
		Message:   out.Message,
		LatencyMS: out.LatencyMS,
		Timestamp: time.Now().UTC(),
	}
	// An optional service that is simply not running is a skip, not a
	// failure; only a reachable-but-broken optional service counts failed.
	if !out.Success && !spec.Required && out.Transient {
		res.Skipped = true
		res.Message = "service not running (optional): " + out.Message
	}
	return res
}
