package store

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/rcliao/memory-curator/internal/model"
)

// Stats holds ledger statistics.
type Stats struct {
	DBPath         string        `json:"db_path"`
	DBSizeBytes    int64         `json:"db_size_bytes"`
	TotalRuns      int           `json:"total_runs"`
	CompletedRuns  int           `json:"completed_runs"`
	FailedRuns     int           `json:"failed_runs"`
	TotalAdditions int           `json:"total_additions"`
	TotalRemovals  int           `json:"total_removals"`
	LastRunAt      *time.Time    `json:"last_run_at,omitempty"`
	Sources        []SourceStats `json:"sources"`
}

// SourceStats counts merged entries per daily note.
type SourceStats struct {
	SourceFile string `json:"source_file"`
	Count      int    `json:"count"`
}

// Stats returns ledger statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.TotalRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE status = ?`, model.StatusCompleted).Scan(&st.CompletedRuns)
	st.FailedRuns = st.TotalRuns - st.CompletedRuns
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM additions`).Scan(&st.TotalAdditions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM removals`).Scan(&st.TotalRemovals)

	var last sql.NullString
	s.db.QueryRowContext(ctx, `SELECT timestamp FROM runs ORDER BY id DESC LIMIT 1`).Scan(&last)
	if last.Valid {
		t := parseTime(last.String)
		st.LastRunAt = &t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_file, COUNT(*) AS cnt
		FROM additions
		GROUP BY source_file ORDER BY cnt DESC, source_file
		LIMIT 10`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var src SourceStats
		rows.Scan(&src.SourceFile, &src.Count)
		st.Sources = append(st.Sources, src)
	}

	return st, nil
}
