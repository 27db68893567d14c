package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-report/internal/analysis"
	"resume-report/internal/backend"
	"resume-report/internal/history"
	"resume-report/internal/shared/metrics"
	"resume-report/internal/shared/telemetry"
)

// Report sources, used as the reports_built_total label.
const (
	SourcePayload = "payload"
	SourceFetch   = "fetch"
)

// ErrBackendUnavailable is returned when no remote analysis client is configured.
var ErrBackendUnavailable = errors.New("analysis service is not configured")

// RemoteAnalyzer is the subset of the analysis service client used here.
type RemoteAnalyzer interface {
	UploadDocument(ctx context.Context, fileName, mimeType string, content []byte) (backend.Document, error)
	StartAnalysis(ctx context.Context, documentID, jobDescription string) (backend.StartedAnalysis, error)
	WaitForResult(ctx context.Context, analysisID string) (json.RawMessage, error)
}

// Service turns raw analysis results into reports and records them in history.
type Service struct {
	Adapter analysis.Adapter
	History *history.Service
	Remote  RemoteAnalyzer
}

// Build normalizes a raw result and derives the report. The report is saved to
// history when it carries an analysis ID; a failed save is logged and does not
// fail the build.
func (s *Service) Build(ctx context.Context, source string, payload []byte) (analysis.Report, error) {
	raw, err := analysis.DecodeRaw(payload)
	if err != nil {
		return analysis.Report{}, err
	}
	report := analysis.BuildReport(s.Adapter.FromBackend(raw))
	metrics.ObserveReport(source, report.Analysis.FinalScore, report.Analysis.MatchScore)
	telemetry.Info("report.built", map[string]any{
		"analysis_id":   report.Analysis.AnalysisID,
		"source":        source,
		"final_score":   report.Analysis.FinalScore,
		"match_score":   report.Analysis.MatchScore,
		"analysis_mode": string(report.Analysis.AnalysisMode),
	})

	if s.History != nil {
		if _, _, err := s.History.Save(ctx, report); err != nil && !errors.Is(err, history.ErrInvalidEntry) {
			telemetry.Error("history.save_failed", map[string]any{
				"analysis_id": report.Analysis.AnalysisID,
				"error":       err,
			})
		}
	}
	return report, nil
}

// Fetch waits for a remote analysis to complete and builds its report.
func (s *Service) Fetch(ctx context.Context, analysisID string) (analysis.Report, error) {
	if s.Remote == nil {
		return analysis.Report{}, ErrBackendUnavailable
	}
	result, err := s.Remote.WaitForResult(ctx, analysisID)
	if err != nil {
		return analysis.Report{}, err
	}
	return s.Build(ctx, SourceFetch, result)
}

// Submit uploads a validated resume and starts its analysis.
func (s *Service) Submit(ctx context.Context, fileName, mimeType string, content []byte, jobDescription string) (backend.StartedAnalysis, error) {
	if s.Remote == nil {
		return backend.StartedAnalysis{}, ErrBackendUnavailable
	}
	doc, err := s.Remote.UploadDocument(ctx, fileName, mimeType, content)
	if err != nil {
		return backend.StartedAnalysis{}, fmt.Errorf("upload resume: %w", err)
	}
	started, err := s.Remote.StartAnalysis(ctx, doc.DocumentID, jobDescription)
	if err != nil {
		return backend.StartedAnalysis{}, fmt.Errorf("start analysis: %w", err)
	}
	return started, nil
}
