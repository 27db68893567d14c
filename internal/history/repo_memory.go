package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[string]Entry)}
}

func (r *MemoryRepo) Insert(ctx context.Context, entry Entry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[entry.AnalysisID]; exists {
		return false, nil
	}
	r.entries[entry.AnalysisID] = entry
	return true, nil
}

func (r *MemoryRepo) GetByAnalysisID(ctx context.Context, analysisID string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[analysisID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		all = append(all, entry)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].AnalyzedAt.Equal(all[j].AnalyzedAt) {
			return all[i].SavedAt.After(all[j].SavedAt)
		}
		return all[i].AnalyzedAt.After(all[j].AnalyzedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []Entry{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.entries))
	r.entries = make(map[string]Entry)
	return n, nil
}
