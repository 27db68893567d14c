package reports

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-report/internal/analysis"
	"resume-report/internal/backend"
	"resume-report/internal/shared/server/respond"
	"resume-report/internal/submission"
)

const (
	maxPayloadBytes = 10 << 20
	// multipart overhead on top of the resume itself
	uploadSlackBytes = 1 << 20
)

// Handler wires HTTP handlers to the report service.
type Handler struct {
	Svc       *Service
	Validator submission.Validator
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, validator submission.Validator) *Handler {
	return &Handler{Svc: svc, Validator: validator}
}

// RegisterRoutes attaches report and analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.build)
	rg.POST("/reports/explain", h.explain)
	rg.POST("/reports/skill-gap", h.skillGap)
	rg.POST("/analyses", h.submit)
	rg.POST("/analyses/:id/fetch", h.fetch)
}

func (h *Handler) build(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large", nil)
		return
	}

	report, err := h.Svc.Build(c.Request.Context(), SourcePayload, payload)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrInvalidJSON):
			respond.Error(c, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build report", nil)
		}
		return
	}
	c.Set("analysisId", report.Analysis.AnalysisID)
	respond.OK(c, report)
}

func (h *Handler) explain(c *gin.Context) {
	var req analysis.AnalysisResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	respond.OK(c, analysis.BuildScoreExplanation(req))
}

type skillGapRequest struct {
	Keywords        []string                      `json:"keywords"`
	Issues          []analysis.IssueItem          `json:"issues"`
	Recommendations []analysis.RecommendationItem `json:"recommendations"`
}

type skillGapResponse struct {
	Keywords              []analysis.KeywordGuidance   `json:"keywords"`
	KeywordRecommendation *analysis.RecommendationItem `json:"keywordRecommendation,omitempty"`
}

func (h *Handler) skillGap(c *gin.Context) {
	var req skillGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	respond.OK(c, skillGapResponse{
		Keywords:              analysis.GuideKeywords(req.Keywords, req.Issues, req.Recommendations, 0),
		KeywordRecommendation: analysis.FindKeywordRecommendation(req.Recommendations),
	})
}

func (h *Handler) submit(c *gin.Context) {
	limit := h.Validator.MaxResumeBytes
	if limit <= 0 {
		limit = maxPayloadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+uploadSlackBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []map[string]string{
			{"field": "file", "issue": "required"},
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	fileName, err := submission.CleanFileName(fileHeader.Filename)
	if err != nil {
		respondValidation(c, err)
		return
	}
	mimeType, err := h.Validator.ValidateResume(fileName, content)
	if err != nil {
		respondValidation(c, err)
		return
	}
	jobDescription, err := h.Validator.ValidateJobDescription(c.PostForm("jobDescription"))
	if err != nil {
		respondValidation(c, err)
		return
	}

	started, err := h.Svc.Submit(c.Request.Context(), fileName, mimeType, content, jobDescription)
	if err != nil {
		respondRemoteError(c, err)
		return
	}
	c.Set("analysisId", started.AnalysisID)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"analysisId": started.AnalysisID,
		"status":     started.Status,
	})
}

func (h *Handler) fetch(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}
	c.Set("analysisId", analysisID)

	report, err := h.Svc.Fetch(c.Request.Context(), analysisID)
	if err != nil {
		respondRemoteError(c, err)
		return
	}
	respond.OK(c, report)
}

func respondValidation(c *gin.Context, err error) {
	var fieldErr *submission.FieldError
	if errors.As(err, &fieldErr) {
		status := http.StatusBadRequest
		if errors.Is(err, submission.ErrResumeTooLarge) {
			status = http.StatusRequestEntityTooLarge
		} else if errors.Is(err, submission.ErrUnsupportedType) || errors.Is(err, submission.ErrTypeMismatch) {
			status = http.StatusUnsupportedMediaType
		}
		respond.Error(c, status, "validation_error", fieldErr.Err.Error(), fieldErr.Details())
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
}

func respondRemoteError(c *gin.Context, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, ErrBackendUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "backend_unavailable", "analysis service is not configured", nil)
	case errors.Is(err, backend.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	case errors.Is(err, backend.ErrAnalysisFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "analysis_failed", "the analysis failed", nil)
	case errors.Is(err, backend.ErrPollTimeout), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "analysis_timeout", "timed out waiting for the analysis", nil)
	case errors.Is(err, analysis.ErrInvalidJSON):
		respond.Error(c, http.StatusBadGateway, "backend_error", "analysis service returned an invalid result", nil)
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests:
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "analysis service is rate limiting requests", gin.H{
			"retryAfterMs": apiErr.RetryAfter.Milliseconds(),
		})
	default:
		respond.Error(c, http.StatusBadGateway, "backend_error", "analysis service request failed", nil)
	}
}
