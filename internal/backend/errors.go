package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("remote resource not found")
	ErrAnalysisFailed = errors.New("remote analysis failed")
	ErrPollTimeout    = errors.New("timed out waiting for analysis")
)

// APIError is a non-2xx response from the analysis service.
type APIError struct {
	Operation  string
	Status     int
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: status %d (%s): %s", e.Operation, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Operation, e.Status, msg)
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Retryable reports whether repeating the request may succeed.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// parseAPIError reads the service's error body. Both the structured
// {error:{code,message}} shape and the rate limiter's {error:"code",
// retryAfterMs:N} shape are understood.
func parseAPIError(op string, resp *http.Response, body []byte, now time.Time) *APIError {
	apiErr := &APIError{
		Operation:  op,
		Status:     resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), now),
	}

	var payload struct {
		Error        json.RawMessage `json:"error"`
		RetryAfterMs *int64          `json:"retryAfterMs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	var structured struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	var code string
	switch {
	case json.Unmarshal(payload.Error, &structured) == nil:
		apiErr.Code, apiErr.Message = structured.Code, structured.Message
	case json.Unmarshal(payload.Error, &code) == nil:
		apiErr.Code = code
	}
	if payload.RetryAfterMs != nil && *payload.RetryAfterMs > 0 {
		if hint := time.Duration(*payload.RetryAfterMs) * time.Millisecond; hint > apiErr.RetryAfter {
			apiErr.RetryAfter = hint
		}
	}
	return apiErr
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
