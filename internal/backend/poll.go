package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"resume-report/internal/shared/metrics"
	"resume-report/internal/shared/telemetry"
)

var errPending = errors.New("analysis still pending")

// WaitForResult polls an analysis until it completes and returns the raw
// result. Waits grow exponentially with jitter up to the configured maximum
// interval, and never undercut a Retry-After hint from the service. A failed
// analysis and client errors other than 429 end polling immediately.
func (c *Client) WaitForResult(ctx context.Context, analysisID string) (json.RawMessage, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.pollInitial
	expo.MaxInterval = c.pollMax
	expo.MaxElapsedTime = c.pollMaxElapsed
	bo := &hintedBackOff{BackOff: expo}

	started := time.Now()
	attempts := 0
	var result json.RawMessage
	op := func() error {
		attempts++
		analysis, err := c.GetAnalysis(ctx, analysisID)
		if err != nil {
			metrics.IncPollAttempt("error")
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				if !apiErr.Retryable() {
					return backoff.Permanent(err)
				}
				bo.hint = apiErr.RetryAfter
			}
			return err
		}
		metrics.IncPollAttempt(analysis.Status)

		switch analysis.Status {
		case StatusCompleted:
			trimmed := bytes.TrimSpace(analysis.Result)
			if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
				return backoff.Permanent(fmt.Errorf("analysis %s completed without a result", analysisID))
			}
			result = analysis.Result
			return nil
		case StatusFailed:
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrAnalysisFailed, analysisID))
		default:
			return errPending
		}
	}

	err := backoff.Retry(op, backoff.WithContext(bo, ctx))
	fields := map[string]any{
		"analysis_id": analysisID,
		"attempts":    attempts,
		"duration_ms": time.Since(started).Milliseconds(),
	}
	if err != nil {
		if errors.Is(err, errPending) {
			err = fmt.Errorf("%w: %s after %d polls", ErrPollTimeout, analysisID, attempts)
		}
		fields["error"] = err
		telemetry.Warn("backend.poll_failed", fields)
		return nil, err
	}
	telemetry.Info("backend.poll_completed", fields)
	return result, nil
}
