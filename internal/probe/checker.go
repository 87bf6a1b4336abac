package probe

import (
	"context"
	"errors"
	"net/url"
)

// CheckResult is the unified result of a single probe.
//
// StatusCode is the HTTP status when one was received; 0 for transport
// errors. Transient marks failures worth retrying (connection refused,
// timeout) as opposed to a definite bad answer.
type CheckResult struct {
	Success    bool
	Message    string
	LatencyMS  float64
	StatusCode int
	Transient  bool
}

// Checker performs a single check against a target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// isTransient reports whether err is a transport-level failure
// (dial error, timeout) rather than a response the server chose to send.
func isTransient(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
