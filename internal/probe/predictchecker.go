package probe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/inference"
)

// PredictChecker submits a known test asset to the prediction endpoint. It
// is a liveness/schema check: the answer must be a label from the class set
// with a confidence in (0,1]; whether the label matches the asset's expected
// class is logged but never fails the check.
type PredictChecker struct {
	Client        *inference.Client
	Asset         string
	ExpectedLabel string
	Classes       []string
	Logger        *zap.Logger
}

func (p *PredictChecker) Check(ctx context.Context, target string) CheckResult {
	payload, name, err := p.loadAsset()
	if err != nil {
		return CheckResult{Success: false, Message: fmt.Sprintf("test asset: %v", err)}
	}

	start := time.Now()
	pred, err := p.Client.PredictReader(ctx, name, bytes.NewReader(payload))
	latency := time.Since(start).Seconds() * 1000
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency, Transient: isTransient(err)}
	}

	if !contains(p.Classes, pred.Label) {
		return CheckResult{
			Success:   false,
			Message:   fmt.Sprintf("label %q is not in class set %v", pred.Label, p.Classes),
			LatencyMS: latency,
		}
	}
	if pred.Confidence <= 0 || pred.Confidence > 1 {
		return CheckResult{
			Success:   false,
			Message:   fmt.Sprintf("confidence %v outside (0,1]", pred.Confidence),
			LatencyMS: latency,
		}
	}
	if p.ExpectedLabel != "" && pred.Label != p.ExpectedLabel {
		p.Logger.Info("smoke_predict_label_mismatch",
			zap.String("expected", p.ExpectedLabel),
			zap.String("got", pred.Label),
			zap.Float64("confidence", pred.Confidence),
		)
	}
	return CheckResult{
		Success:   true,
		Message:   fmt.Sprintf("prediction works (label=%s confidence=%.2f)", pred.Label, pred.Confidence),
		LatencyMS: latency,
	}
}

// loadAsset reads the configured test image, falling back to a built-in
// synthetic PNG when none is configured or the file is gone.
func (p *PredictChecker) loadAsset() ([]byte, string, error) {
	if p.Asset != "" {
		b, err := os.ReadFile(p.Asset)
		if err == nil {
			return b, filepath.Base(p.Asset), nil
		}
		if !os.IsNotExist(err) {
			return nil, "", err
		}
		p.Logger.Warn("smoke_asset_missing", zap.String("path", p.Asset))
	}
	return fixturePNG, "smoke_fixture.png", nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// fixturePNG is a minimal valid 1x1 PNG, enough for the endpoint to accept
// an upload when no real test image is available.
var fixturePNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xde, 0x00, 0x00, 0x00,
	0x0c, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xc0, 0x00,
	0x00, 0x00, 0x03, 0x00, 0x01, 0x87, 0xa1, 0x4e, 0xd4, 0x00, 0x00, 0x00,
	0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
