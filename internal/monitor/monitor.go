package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
	"github.com/abdulbitspilani/mlopsgate/internal/history"
	"github.com/abdulbitspilani/mlopsgate/internal/inference"
)

// Predictor is the slice of the inference client the monitor needs.
type Predictor interface {
	Predict(ctx context.Context, path string) (inference.Prediction, error)
}

// Monitor scores an evaluation set against the deployed endpoint, compares
// the resulting snapshot to a baseline and appends it to the history.
type Monitor struct {
	Logger      *zap.Logger
	Predictor   Predictor
	Store       history.Store
	Concurrency int
	Thresholds  map[string]float64
	// BaselineID pins a stored snapshot as the comparison reference.
	// Empty means rolling mode: compare against the most recent snapshot.
	BaselineID string
}

// Report is the outcome of one monitoring run.
type Report struct {
	Snapshot         *domain.PerformanceSnapshot `json:"snapshot,omitempty"`
	Baseline         *domain.PerformanceSnapshot `json:"baseline,omitempty"`
	Verdicts         []domain.DriftVerdict       `json:"verdicts,omitempty"`
	Drifted          bool                        `json:"drifted"`
	FirstRun         bool                        `json:"first_run,omitempty"`
	InsufficientData bool                        `json:"insufficient_data,omitempty"`
}

// Run executes the whole monitoring batch. Per-item inference failures are
// counted, not fatal; an unreachable history store or bad baseline id is
// fatal since no meaningful comparison can be made. The snapshot is only
// appended after the full batch completed, so an interrupt mid-run leaves
// history untouched.
func (m *Monitor) Run(ctx context.Context, items []Item) (*Report, error) {
	baseline, err := m.resolveBaseline(ctx)
	if err != nil {
		return nil, err
	}

	samples, errorCount := m.score(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("monitoring run interrupted: %w", err)
	}

	if len(samples) == 0 {
		m.Logger.Warn("monitor_insufficient_data",
			zap.Int("items", len(items)),
			zap.Int("errors", errorCount),
		)
		return &Report{InsufficientData: true}, nil
	}

	snap := Aggregate(samples, errorCount)
	rep := &Report{Snapshot: snap, Baseline: baseline}
	if baseline == nil {
		rep.FirstRun = true
	} else {
		rep.Verdicts = Compare(baseline, snap, m.Thresholds)
		rep.Drifted = anyDrifted(rep.Verdicts)
	}

	if err := m.Store.Append(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}
	m.Logger.Info("monitor_snapshot_stored",
		zap.String("id", snap.ID),
		zap.Int("samples", snap.SampleCount),
		zap.Int("errors", snap.ErrorCount),
		zap.Float64("accuracy", snap.Accuracy),
		zap.Float64("mean_confidence", snap.MeanConfidence),
		zap.Bool("drifted", rep.Drifted),
	)
	return rep, nil
}

func (m *Monitor) resolveBaseline(ctx context.Context) (*domain.PerformanceSnapshot, error) {
	if m.BaselineID != "" {
		snap, err := m.Store.Get(ctx, m.BaselineID)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return nil, fmt.Errorf("pinned baseline %q: %w", m.BaselineID, err)
			}
			return nil, fmt.Errorf("read baseline: %w", err)
		}
		return snap, nil
	}
	snap, err := m.Store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return snap, nil
}

// score fans the items out over a bounded worker pool. The accumulator is
// guarded by a mutex; order of samples does not matter for aggregation.
func (m *Monitor) score(ctx context.Context, items []Item) ([]domain.PredictionSample, int) {
	concurrency := m.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu         sync.Mutex
		samples    []domain.PredictionSample
		errorCount int
	)
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		it := item
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			pred, err := m.Predictor.Predict(ctx, it.Path)
			if err != nil {
				m.Logger.Warn("monitor_sample_error",
					zap.String("input", it.Path),
					zap.Error(err),
				)
				mu.Lock()
				errorCount++
				mu.Unlock()
				return
			}
			s := domain.PredictionSample{
				InputRef:       it.Path,
				TrueLabel:      it.Label,
				PredictedLabel: pred.Label,
				Confidence:     pred.Confidence,
				Timestamp:      time.Now().UTC(),
			}
			m.Logger.Debug("monitor_sample",
				zap.String("input", it.Path),
				zap.String("true", it.Label),
				zap.String("predicted", pred.Label),
				zap.Float64("confidence", pred.Confidence),
			)
			mu.Lock()
			samples = append(samples, s)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return samples, errorCount
}
