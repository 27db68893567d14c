package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-report/internal/analysis"
	"resume-report/internal/shared/telemetry"
)

// unknownAnalysisID is the placeholder the adapter assigns to payloads without
// an analysis ID. Such reports cannot be deduplicated and are never saved.
const unknownAnalysisID = "analysis-unknown"

// Service keeps a history of built reports, at most one per analysis.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// Save stores report unless an entry for its analysis already exists. The
// returned bool reports whether a new entry was created; the returned entry is
// the stored one either way.
func (s *Service) Save(ctx context.Context, report analysis.Report) (Entry, bool, error) {
	analysisID := strings.TrimSpace(report.Analysis.AnalysisID)
	if analysisID == "" || analysisID == unknownAnalysisID {
		return Entry{}, false, fmt.Errorf("%w: analysis id is missing", ErrInvalidEntry)
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return Entry{}, false, fmt.Errorf("marshal report: %w", err)
	}

	now := s.now().UTC()
	analyzedAt := now
	if parsed, err := time.Parse(time.RFC3339Nano, report.Analysis.CreatedAt); err == nil {
		analyzedAt = parsed.UTC()
	}
	finalScore := report.Analysis.FinalScore
	matchScore := report.Analysis.MatchScore
	entry := Entry{
		ID:           uuid.NewString(),
		AnalysisID:   analysisID,
		Status:       StatusCompleted,
		AnalysisMode: string(report.Analysis.AnalysisMode),
		FinalScore:   &finalScore,
		MatchScore:   &matchScore,
		Report:       payload,
		AnalyzedAt:   analyzedAt,
		SavedAt:      now,
	}

	created, err := s.Repo.Insert(ctx, entry)
	if err != nil {
		return Entry{}, false, err
	}
	if !created {
		existing, err := s.Repo.GetByAnalysisID(ctx, analysisID)
		if err != nil {
			return Entry{}, false, err
		}
		return existing, false, nil
	}
	telemetry.Info("history.saved", map[string]any{
		"analysis_id": analysisID,
		"entry_id":    entry.ID,
		"final_score": finalScore,
	})
	return entry, true, nil
}

func (s *Service) Get(ctx context.Context, analysisID string) (Entry, error) {
	return s.Repo.GetByAnalysisID(ctx, strings.TrimSpace(analysisID))
}

// List returns saved entries newest first. A non-positive limit returns all.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Clear removes every entry and returns how many were removed.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	telemetry.Info("history.cleared", map[string]any{"deleted": n})
	return n, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
