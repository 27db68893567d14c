package history

import (
	"encoding/json"
	"time"
)

type EntryResponse struct {
	AnalysisID        string          `json:"analysisId"`
	Status            string          `json:"status"`
	AnalysisMode      string          `json:"analysisMode"`
	FinalScore        *int            `json:"finalScore"`
	MatchScore        *int            `json:"matchScore"`
	OverallScoreLabel string          `json:"overallScoreLabel"`
	MatchScoreLabel   string          `json:"matchScoreLabel"`
	AnalyzedAt        time.Time       `json:"analyzedAt"`
	SavedAt           time.Time       `json:"savedAt"`
	Report            json.RawMessage `json:"report,omitempty"`
}

func toResponse(e Entry, withReport bool) EntryResponse {
	resp := EntryResponse{
		AnalysisID:        e.AnalysisID,
		Status:            e.Status,
		AnalysisMode:      e.AnalysisMode,
		FinalScore:        e.FinalScore,
		MatchScore:        e.MatchScore,
		OverallScoreLabel: OverallScoreLabel(e.Status, intPtrToFloat(e.FinalScore)),
		MatchScoreLabel:   MatchScoreLabel(intPtrToFloat(e.MatchScore)),
		AnalyzedAt:        e.AnalyzedAt,
		SavedAt:           e.SavedAt,
	}
	if withReport {
		resp.Report = e.Report
	}
	return resp
}
