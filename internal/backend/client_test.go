package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := Options{
		BaseURL:             srv.URL + "/api/v1/",
		Timeout:             2 * time.Second,
		PollInitialInterval: time.Millisecond,
		PollMaxInterval:     5 * time.Millisecond,
		PollMaxElapsed:      2 * time.Second,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	client, err := New(opts)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestUploadDocumentSendsMultipartWithBearerToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "guest-7", r.Header.Get("X-Guest-Id"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "resume.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", string(data))

		writeJSON(w, http.StatusCreated, map[string]any{
			"documentId": "doc-1",
			"fileName":   header.Filename,
			"mimeType":   "application/pdf",
			"sizeBytes":  len(data),
			"uploadedAt": "2026-03-01T08:30:00Z",
		})
	})
	client := newTestClient(t, mux, func(o *Options) {
		o.Token = "secret-token"
		o.GuestID = "guest-7"
	})

	doc, err := client.UploadDocument(context.Background(), "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.DocumentID)
	assert.Equal(t, int64(8), doc.SizeBytes)
}

func TestStartAnalysisSendsJobDescription(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/documents/doc-1/analyze", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Senior Go engineer", body["jobDescription"])
		writeJSON(w, http.StatusAccepted, map[string]string{"analysisId": "an-1", "status": "queued"})
	})
	client := newTestClient(t, mux)

	started, err := client.StartAnalysis(context.Background(), "doc-1", "  Senior Go engineer ")
	require.NoError(t, err)
	assert.Equal(t, StartedAnalysis{AnalysisID: "an-1", Status: StatusQueued}, started)
}

func TestGetAnalysisMapsErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"code": "not_found", "message": "analysis not found"}})
	})
	client := newTestClient(t, mux)

	_, err := client.GetAnalysis(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, "analysis not found", apiErr.Message)
	assert.False(t, apiErr.Retryable())
}

func TestWaitForResultPollsUntilCompleted(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/an-1", func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			writeJSON(w, http.StatusOK, map[string]string{"id": "an-1", "status": "queued"})
		case 2:
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": map[string]string{"code": "unavailable"}})
		case 3:
			writeJSON(w, http.StatusOK, map[string]string{"id": "an-1", "status": "processing"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"id": "an-1", "status": "completed", "result": map[string]any{"ats": map[string]int{"score": 77}}})
		}
	})
	client := newTestClient(t, mux)

	result, err := client.WaitForResult(context.Background(), "an-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ats":{"score":77}}`, string(result))
	assert.Equal(t, int32(4), calls.Load())
}

func TestWaitForResultHonorsRetryAfterHint(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/an-1", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate_limited", "retryAfterMs": 60})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "an-1", "status": "completed", "result": map[string]any{}})
	})
	client := newTestClient(t, mux)

	start := time.Now()
	_, err := client.WaitForResult(context.Background(), "an-1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestWaitForResultStopsOnFailedAnalysis(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/an-1", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"id": "an-1", "status": "failed"})
	})
	client := newTestClient(t, mux)

	_, err := client.WaitForResult(context.Background(), "an-1")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWaitForResultStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/an-1", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]string{"code": "forbidden"}})
	})
	client := newTestClient(t, mux)

	_, err := client.WaitForResult(context.Background(), "an-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWaitForResultTimesOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/an-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id": "an-1", "status": "processing"})
	})
	client := newTestClient(t, mux, func(o *Options) { o.PollMaxElapsed = 30 * time.Millisecond })

	_, err := client.WaitForResult(context.Background(), "an-1")
	assert.ErrorIs(t, err, ErrPollTimeout)
}

func TestWaitForResultRespectsContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyses/an-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id": "an-1", "status": "processing"})
	})
	client := newTestClient(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.WaitForResult(ctx, "an-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
}

func TestAnalyzeRunsFullFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"documentId": "doc-9"})
	})
	mux.HandleFunc("/api/v1/documents/doc-9/analyze", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, map[string]string{"analysisId": "an-9", "status": "queued"})
	})
	mux.HandleFunc("/api/v1/analyses/an-9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "an-9", "status": "completed", "result": map[string]any{"meta": map[string]string{"analysisId": "an-9"}}})
	})
	client := newTestClient(t, mux)

	id, result, err := client.Analyze(context.Background(), "cv.pdf", "application/pdf", []byte("%PDF"), "")
	require.NoError(t, err)
	assert.Equal(t, "an-9", id)
	assert.JSONEq(t, `{"meta":{"analysisId":"an-9"}}`, string(result))
}
