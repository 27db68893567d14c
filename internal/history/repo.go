package history

import "context"

// Repo defines persistence operations for saved reports.
type Repo interface {
	// Insert stores entry unless one with the same analysis ID exists. It
	// reports whether the entry was stored.
	Insert(ctx context.Context, entry Entry) (bool, error)
	GetByAnalysisID(ctx context.Context, analysisID string) (Entry, error)
	// List returns entries newest first by AnalyzedAt.
	List(ctx context.Context, limit, offset int) ([]Entry, error)
	DeleteAll(ctx context.Context) (int64, error)
}
