package backend

import (
	"encoding/json"
	"time"
)

// Analysis statuses reported by the service.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is an uploaded resume as described by the service.
type Document struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type startAnalysisRequest struct {
	JobDescription string `json:"jobDescription,omitempty"`
}

type StartedAnalysis struct {
	AnalysisID string `json:"analysisId"`
	Status     string `json:"status"`
}

// Analysis is one poll of an analysis. Result is only present once the
// analysis has completed and is left undecoded.
type Analysis struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}
