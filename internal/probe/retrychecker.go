package probe

import (
	"context"
	"fmt"
	"time"
)

// RetryChecker retries transient failures of the inner checker. Definite
// failures (a real HTTP error status, a schema problem) pass through on the
// first attempt; latency always comes from the last attempt made.
// AttemptTimeout deadlines each attempt separately, so a timed-out attempt
// still leaves budget for the remaining ones.
type RetryChecker struct {
	Inner          Checker
	Attempts       int
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, target string) CheckResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last CheckResult
	for i := 0; i < attempts; i++ {
		last = r.attempt(ctx, target)
		if last.Success || !last.Transient {
			return last
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				last.Message = ctx.Err().Error()
				return last
			case <-time.After(r.Backoff):
			}
		}
	}
	last.Message = fmt.Sprintf("%s (after %d attempts)", last.Message, attempts)
	return last
}

func (r *RetryChecker) attempt(ctx context.Context, target string) CheckResult {
	if r.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.AttemptTimeout)
		defer cancel()
	}
	return r.Inner.Check(ctx, target)
}
