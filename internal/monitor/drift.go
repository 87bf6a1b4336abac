package monitor

import (
	"math"
	"sort"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
)

// Metric names accepted in the threshold map.
const (
	MetricAccuracy         = "accuracy"
	MetricMeanConfidence   = "mean_confidence"
	MetricPerClassAccuracy = "per_class_accuracy"
)

// Compare produces one DriftVerdict per configured metric. A verdict is
// drifted when the absolute delta exceeds its threshold; per-class accuracy
// yields one verdict per class known to the baseline.
func Compare(baseline, current *domain.PerformanceSnapshot, thresholds map[string]float64) []domain.DriftVerdict {
	var verdicts []domain.DriftVerdict

	if th, ok := thresholds[MetricAccuracy]; ok {
		verdicts = append(verdicts, verdict(MetricAccuracy, "", baseline.Accuracy, current.Accuracy, th))
	}
	if th, ok := thresholds[MetricMeanConfidence]; ok {
		verdicts = append(verdicts, verdict(MetricMeanConfidence, "", baseline.MeanConfidence, current.MeanConfidence, th))
	}
	if th, ok := thresholds[MetricPerClassAccuracy]; ok {
		classes := make([]string, 0, len(baseline.PerClassAccuracy))
		for c := range baseline.PerClassAccuracy {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			verdicts = append(verdicts, verdict(MetricPerClassAccuracy, c,
				baseline.PerClassAccuracy[c], current.PerClassAccuracy[c], th))
		}
	}
	return verdicts
}

func verdict(metric, class string, base, cur, threshold float64) domain.DriftVerdict {
	delta := cur - base
	return domain.DriftVerdict{
		Metric:        metric,
		Class:         class,
		BaselineValue: base,
		CurrentValue:  cur,
		Delta:         delta,
		Threshold:     threshold,
		Drifted:       math.Abs(delta) > threshold,
	}
}

// anyDrifted reports whether at least one verdict flagged drift.
func anyDrifted(vs []domain.DriftVerdict) bool {
	for _, v := range vs {
		if v.Drifted {
			return true
		}
	}
	return false
}
