package monitor

import (
	"time"

	"github.com/google/uuid"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

// Aggregate folds a batch of samples into a snapshot. Accuracy uses only
// samples with a known true label; mean confidence and the histogram use
// every sample that scored.
func Aggregate(samples []domain.PredictionSample, errorCount int) *domain.PerformanceSnapshot {
	snap := &domain.PerformanceSnapshot{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		SampleCount:      len(samples),
		ErrorCount:       errorCount,
		PerClassAccuracy: map[string]float64{},
		PerClassCounts:   map[string]int{},
	}
	if len(samples) == 0 {
		return snap
	}

	var confSum float64
	var labeled, correct int
	classCorrect := map[string]int{}

	for _, s := range samples {
		confSum += s.Confidence
		snap.ConfidenceHistogram[bucket(s.Confidence)]++
		if s.TrueLabel == "" {
			continue
		}
		labeled++
		snap.PerClassCounts[s.TrueLabel]++
		if s.Correct() {
			correct++
			classCorrect[s.TrueLabel]++
		}
	}

	snap.MeanConfidence = confSum / float64(len(samples))
	if labeled > 0 {
		snap.Accuracy = float64(correct) / float64(labeled)
	}
	for class, total := range snap.PerClassCounts {
		snap.PerClassAccuracy[class] = float64(classCorrect[class]) / float64(total)
	}
	return snap
}

// bucket maps a confidence in [0,1] to one of the fixed-width histogram
// buckets; 1.0 lands in the top bucket.
func bucket(conf float64) int {
	b := int(conf * domain.HistogramBuckets)
	if b < 0 {
		return 0
	}
	if b >= domain.HistogramBuckets {
		return domain.HistogramBuckets - 1
	}
	return b
}
