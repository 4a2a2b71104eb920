package store

import (
	"context"
)

// SearchAdditions finds merged entries whose content or source file contains
// the query substring, newest run first.
func (s *SQLiteStore) SearchAdditions(ctx context.Context, p SearchParams) ([]AdditionMatch, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + escapeLike(p.Query) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.run_id, r.timestamp, a.section, a.content, a.source_file, a.confidence, a.extracted_at
		FROM additions a
		INNER JOIN runs r ON r.id = a.run_id
		WHERE a.content LIKE ? ESCAPE '\' OR a.source_file LIKE ? ESCAPE '\'
		ORDER BY a.run_id DESC, a.seq
		LIMIT ?`, query, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []AdditionMatch
	for rows.Next() {
		var m AdditionMatch
		var runAt, extracted string
		if err := rows.Scan(&m.RunID, &runAt, &m.Section, &m.Content, &m.SourceFile, &m.Confidence, &extracted); err != nil {
			return nil, err
		}
		m.RunAt = parseTime(runAt)
		m.ExtractedAt = parseTime(extracted)
		results = append(results, m)
	}

	return results, rows.Err()
}
