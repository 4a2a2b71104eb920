package store

import (
	"context"
)

// ExportAll returns every recorded run with its details, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, agent_id, status, error, recorded_at FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Run, 0, len(runs))
	for _, run := range runs {
		if err := s.loadDetails(ctx, run); err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, nil
}

// Import records the reports of previously exported runs under new ids.
func (s *SQLiteStore) Import(ctx context.Context, runs []Run) (int, error) {
	imported := 0
	for _, run := range runs {
		report := run.Report
		if _, err := s.RecordRun(ctx, &report); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
