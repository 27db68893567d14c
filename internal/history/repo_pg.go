package history

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, entry Entry) (bool, error) {
	const query = `
INSERT INTO report_history (
	id, analysis_id, status, analysis_mode, final_score, match_score, report, analyzed_at, saved_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (analysis_id) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.AnalysisID,
		entry.Status,
		entry.AnalysisMode,
		nullableInt(entry.FinalScore),
		nullableInt(entry.MatchScore),
		[]byte(entry.Report),
		entry.AnalyzedAt,
		entry.SavedAt,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepo) GetByAnalysisID(ctx context.Context, analysisID string) (Entry, error) {
	const query = `
SELECT id, analysis_id, status, analysis_mode, final_score, match_score, report, analyzed_at, saved_at
FROM report_history
WHERE analysis_id = $1
LIMIT 1`
	entry, err := scanEntry(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return entry, err
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	const query = `
SELECT id, analysis_id, status, analysis_mode, final_score, match_score, report, analyzed_at, saved_at
FROM report_history
ORDER BY analyzed_at DESC, saved_at DESC
LIMIT $1 OFFSET $2`
	if offset < 0 {
		offset = 0
	}
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.DB.QueryContext(ctx, query, limitArg, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM report_history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var finalScore, matchScore sql.NullInt64
	var report []byte
	if err := row.Scan(
		&e.ID,
		&e.AnalysisID,
		&e.Status,
		&e.AnalysisMode,
		&finalScore,
		&matchScore,
		&report,
		&e.AnalyzedAt,
		&e.SavedAt,
	); err != nil {
		return Entry{}, err
	}
	e.FinalScore = fromNullInt(finalScore)
	e.MatchScore = fromNullInt(matchScore)
	e.Report = report
	return e, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
