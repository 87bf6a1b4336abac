package domain

import "time"

// HistogramBuckets is the number of fixed-width confidence buckets over [0,1].
const HistogramBuckets = 10

// PredictionSample is one inference exchange recorded while scoring an
// evaluation set against the deployed endpoint.
type PredictionSample struct {
	InputRef       string    `json:"input_ref"`
	TrueLabel      string    `json:"true_label,omitempty"`
	PredictedLabel string    `json:"predicted_label"`
	Confidence     float64   `json:"confidence"`
	Timestamp      time.Time `json:"timestamp"`
}

// Correct reports whether the sample was scored right; only meaningful when
// a true label is present.
func (s PredictionSample) Correct() bool {
	return s.TrueLabel != "" && s.TrueLabel == s.PredictedLabel
}

// PerformanceSnapshot aggregates one monitoring batch. Snapshots are
// append-only: once stored, never altered.
type PerformanceSnapshot struct {
	ID                  string                `json:"id"`
	Timestamp           time.Time             `json:"timestamp"`
	SampleCount         int                   `json:"sample_count"`
	ErrorCount          int                   `json:"error_count"`
	Accuracy            float64               `json:"accuracy"`
	MeanConfidence      float64               `json:"mean_confidence"`
	ConfidenceHistogram [HistogramBuckets]int `json:"confidence_histogram"`
	PerClassAccuracy    map[string]float64    `json:"per_class_accuracy"`
	PerClassCounts      map[string]int        `json:"per_class_counts,omitempty"`
}

// DriftVerdict compares one metric of a new snapshot against the baseline.
type DriftVerdict struct {
	Metric        string  `json:"metric"`
	Class         string  `json:"class,omitempty"`
	BaselineValue float64 `json:"baseline_value"`
	CurrentValue  float64 `json:"current_value"`
	Delta         float64 `json:"delta"`
	Threshold     float64 `json:"threshold"`
	Drifted       bool    `json:"drifted"`
}
