package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

const StatusCompleted = "completed"

var (
	ErrNotFound     = errors.New("history entry not found")
	ErrInvalidEntry = errors.New("invalid history entry")
)

// Entry is one saved report. Report holds the serialized report exactly as it
// was returned to the caller.
type Entry struct {
	ID           string
	AnalysisID   string
	Status       string
	AnalysisMode string
	FinalScore   *int
	MatchScore   *int
	Report       json.RawMessage
	AnalyzedAt   time.Time
	SavedAt      time.Time
}

// OverallScoreLabel renders the final score as "NN/100", or "—" when the
// analysis did not complete or carries no score.
func OverallScoreLabel(status string, score *float64) string {
	if status != StatusCompleted {
		return "—"
	}
	return scoreLabel(score)
}

// MatchScoreLabel renders the match score as "NN/100", or "—" when absent.
func MatchScoreLabel(score *float64) string {
	return scoreLabel(score)
}

func scoreLabel(score *float64) string {
	if score == nil || math.IsNaN(*score) || math.IsInf(*score, 0) {
		return "—"
	}
	return fmt.Sprintf("%d/100", int(math.Round(*score)))
}

func intPtrToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
