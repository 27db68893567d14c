package backend

import (
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 3*time.Second, parseRetryAfter("3", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, 90*time.Second, parseRetryAfter(now.Add(90*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
}

func TestParseAPIErrorPrefersLongerHint(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"1"}}}
	apiErr := parseAPIError("get_analysis", resp, []byte(`{"error":"rate_limited","retryAfterMs":2500}`), time.Now())

	assert.Equal(t, "rate_limited", apiErr.Code)
	assert.Equal(t, 2500*time.Millisecond, apiErr.RetryAfter)
	assert.True(t, apiErr.Retryable())
}

func TestParseAPIErrorToleratesNonJSON(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusBadGateway, Header: http.Header{}}
	apiErr := parseAPIError("get_analysis", resp, []byte("<html>bad gateway</html>"), time.Now())

	assert.Equal(t, "get_analysis: status 502: Bad Gateway", apiErr.Error())
	assert.True(t, apiErr.Retryable())
}

func TestHintedBackOffAppliesHintOnce(t *testing.T) {
	bo := &hintedBackOff{BackOff: backoff.NewConstantBackOff(5 * time.Millisecond)}
	bo.hint = 50 * time.Millisecond

	assert.Equal(t, 50*time.Millisecond, bo.NextBackOff())
	assert.Equal(t, 5*time.Millisecond, bo.NextBackOff())

	bo.hint = time.Millisecond
	assert.Equal(t, 5*time.Millisecond, bo.NextBackOff())
}

func TestHintedBackOffKeepsStop(t *testing.T) {
	bo := &hintedBackOff{BackOff: &backoff.StopBackOff{}, hint: time.Second}
	assert.Equal(t, backoff.Stop, bo.NextBackOff())
}
