package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-report/internal/analysis"
)

func buildReport(t *testing.T, payload string) analysis.Report {
	t.Helper()
	raw, err := analysis.DecodeRaw([]byte(payload))
	require.NoError(t, err)
	return analysis.BuildReport(analysis.FromBackendResult(raw))
}

func newService(now time.Time) *Service {
	return &Service{Repo: NewMemoryRepo(), Now: func() time.Time { return now }}
}

func TestSaveIsIdempotentPerAnalysis(t *testing.T) {
	ctx := context.Background()
	svc := newService(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	first, created, err := svc.Save(ctx, buildReport(t, `{"meta":{"analysisId":"an-1","createdAt":"2026-01-31T10:00:00.000Z"},"ats":{"score":70}}`))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "an-1", first.AnalysisID)
	assert.Equal(t, 70, *first.FinalScore)
	assert.Equal(t, time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC), first.AnalyzedAt)

	second, created, err := svc.Save(ctx, buildReport(t, `{"meta":{"analysisId":"an-1"},"ats":{"score":10}}`))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 70, *second.FinalScore)

	var stored analysis.Report
	require.NoError(t, json.Unmarshal(second.Report, &stored))
	assert.Equal(t, 70, stored.Analysis.FinalScore)
}

func TestSaveRejectsUnknownAnalysis(t *testing.T) {
	svc := newService(time.Now())
	_, _, err := svc.Save(context.Background(), buildReport(t, `{}`))
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestListNewestFirstAndClear(t *testing.T) {
	ctx := context.Background()
	svc := newService(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	for _, payload := range []string{
		`{"meta":{"analysisId":"old","createdAt":"2026-01-01T00:00:00.000Z"}}`,
		`{"meta":{"analysisId":"new","createdAt":"2026-01-20T00:00:00.000Z"}}`,
		`{"meta":{"analysisId":"mid","createdAt":"2026-01-10T00:00:00.000Z"}}`,
	} {
		_, _, err := svc.Save(ctx, buildReport(t, payload))
		require.NoError(t, err)
	}

	entries, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AnalysisID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)

	page, err := svc.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "mid", page[0].AnalysisID)

	deleted, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	_, err = svc.Get(ctx, "new")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryRepo().List(ctx, 10, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
