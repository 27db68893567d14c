package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"resume-report/internal/shared/config"
	"resume-report/internal/shared/metrics"
	"resume-report/internal/shared/telemetry"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 10 << 20
	guestHeader      = "X-Guest-Id"
)

// Options configures a Client.
type Options struct {
	BaseURL             string
	Token               string
	GuestID             string
	Timeout             time.Duration
	RequestsPerSecond   float64
	PollInitialInterval time.Duration
	PollMaxInterval     time.Duration
	PollMaxElapsed      time.Duration
}

// OptionsFromConfig maps loaded configuration onto client options.
func OptionsFromConfig(cfg config.BackendConfig) Options {
	return Options{
		BaseURL:             cfg.BaseURL,
		Token:               cfg.Token,
		GuestID:             cfg.GuestID,
		Timeout:             cfg.Timeout,
		RequestsPerSecond:   cfg.RequestsPerSecond,
		PollInitialInterval: cfg.PollInitialInterval,
		PollMaxInterval:     cfg.PollMaxInterval,
		PollMaxElapsed:      cfg.PollMaxElapsed,
	}
}

// Client talks to the remote analysis service. It is safe for concurrent use.
type Client struct {
	baseURL string
	guestID string
	hc      *http.Client
	limiter *rate.Limiter

	pollInitial    time.Duration
	pollMax        time.Duration
	pollMaxElapsed time.Duration
}

// New constructs a Client. A non-empty Token is sent as a bearer token on
// every request.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("analysis service base URL is required")
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid analysis service base URL %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := &http.Client{Timeout: timeout}
	if token := strings.TrimSpace(opts.Token); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
		hc.Timeout = timeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		burst := int(math.Ceil(opts.RequestsPerSecond))
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:        baseURL,
		guestID:        strings.TrimSpace(opts.GuestID),
		hc:             hc,
		limiter:        limiter,
		pollInitial:    durationOr(opts.PollInitialInterval, time.Second),
		pollMax:        durationOr(opts.PollMaxInterval, 10*time.Second),
		pollMaxElapsed: durationOr(opts.PollMaxElapsed, 3*time.Minute),
	}, nil
}

// UploadDocument sends a resume file as multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, fileName, mimeType string, content []byte) (Document, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return Document{}, fmt.Errorf("upload document: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return Document{}, fmt.Errorf("upload document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Document{}, fmt.Errorf("upload document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents", &body)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc Document
	if err := c.doJSON(req, "upload_document", &doc); err != nil {
		return Document{}, err
	}
	if doc.DocumentID == "" {
		return Document{}, errors.New("upload document: response missing documentId")
	}
	return doc, nil
}

// StartAnalysis queues an analysis of documentID. An empty jobDescription
// requests a resume-only analysis.
func (c *Client) StartAnalysis(ctx context.Context, documentID, jobDescription string) (StartedAnalysis, error) {
	payload, err := json.Marshal(startAnalysisRequest{JobDescription: strings.TrimSpace(jobDescription)})
	if err != nil {
		return StartedAnalysis{}, err
	}
	endpoint := c.baseURL + "/documents/" + url.PathEscape(documentID) + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return StartedAnalysis{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var started StartedAnalysis
	if err := c.doJSON(req, "start_analysis", &started); err != nil {
		return StartedAnalysis{}, err
	}
	if started.AnalysisID == "" {
		return StartedAnalysis{}, errors.New("start analysis: response missing analysisId")
	}
	telemetry.Info("backend.analysis_started", map[string]any{
		"document_id": documentID,
		"analysis_id": started.AnalysisID,
		"status":      started.Status,
	})
	return started, nil
}

// GetAnalysis fetches the current state of an analysis.
func (c *Client) GetAnalysis(ctx context.Context, analysisID string) (Analysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/analyses/"+url.PathEscape(analysisID), nil)
	if err != nil {
		return Analysis{}, err
	}
	var analysis Analysis
	if err := c.doJSON(req, "get_analysis", &analysis); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// Analyze uploads a resume, starts an analysis and waits for its result.
func (c *Client) Analyze(ctx context.Context, fileName, mimeType string, content []byte, jobDescription string) (string, json.RawMessage, error) {
	doc, err := c.UploadDocument(ctx, fileName, mimeType, content)
	if err != nil {
		return "", nil, err
	}
	started, err := c.StartAnalysis(ctx, doc.DocumentID, jobDescription)
	if err != nil {
		return "", nil, err
	}
	result, err := c.WaitForResult(ctx, started.AnalysisID)
	if err != nil {
		return started.AnalysisID, nil, err
	}
	return started.AnalysisID, result, nil
}

func (c *Client) doJSON(req *http.Request, op string, out any) error {
	body, err := c.do(req, op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.guestID != "" {
		req.Header.Set(guestHeader, c.guestID)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.ObserveBackendRequest(op, 0, time.Since(start))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.ObserveBackendRequest(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(op, resp, body, time.Now())
		telemetry.Warn("backend.request_failed", map[string]any{
			"operation":      op,
			"status":         apiErr.Status,
			"code":           apiErr.Code,
			"retry_after_ms": apiErr.RetryAfter.Milliseconds(),
		})
		return nil, apiErr
	}
	return body, nil
}

func durationOr(value, def time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return def
}
