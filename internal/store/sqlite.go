package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/memory-curator/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:     time.Now,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		timestamp     TEXT NOT NULL,
		agent_id      TEXT NOT NULL,
		status        TEXT NOT NULL,
		error         TEXT,
		recorded_at   TEXT NOT NULL,
		files_scanned INTEGER NOT NULL DEFAULT 0,
		additions     INTEGER NOT NULL DEFAULT 0,
		removals      INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

	CREATE TABLE IF NOT EXISTS run_files (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq    INTEGER NOT NULL,
		path   TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS additions (
		id           TEXT PRIMARY KEY,
		run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq          INTEGER NOT NULL,
		section      TEXT NOT NULL,
		content      TEXT NOT NULL,
		source_file  TEXT NOT NULL,
		confidence   REAL NOT NULL,
		extracted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_additions_run ON additions(run_id, seq);
	CREATE INDEX IF NOT EXISTS idx_additions_source ON additions(source_file);

	CREATE TABLE IF NOT EXISTS removals (
		id              TEXT PRIMARY KEY,
		run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL,
		section         TEXT NOT NULL,
		content         TEXT NOT NULL,
		reason          TEXT NOT NULL,
		last_referenced TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_removals_run ON removals(run_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores r with its files, additions and removals in one transaction.
func (s *SQLiteStore) RecordRun(ctx context.Context, r *model.Report) (*Run, error) {
	if r == nil {
		return nil, errors.New("record run: nil report")
	}
	recorded := s.now().UTC()
	id := s.newID(recorded)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, timestamp, agent_id, status, error, recorded_at, files_scanned, additions, removals)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, formatTime(r.Timestamp), r.AgentID, r.Status, r.Error, formatTime(recorded),
		len(r.FilesScanned), len(r.Additions), len(r.Removals))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for i, path := range r.FilesScanned {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, seq, path) VALUES (?, ?, ?)`, id, i, path)
		if err != nil {
			return nil, fmt.Errorf("insert run file: %w", err)
		}
	}

	for i, a := range r.Additions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO additions (id, run_id, seq, section, content, source_file, confidence, extracted_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(recorded), id, i, a.Section, a.Content, a.SourceFile, a.Confidence, formatTime(a.ExtractedAt))
		if err != nil {
			return nil, fmt.Errorf("insert addition: %w", err)
		}
	}

	for i, rm := range r.Removals {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO removals (id, run_id, seq, section, content, reason, last_referenced)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.newID(recorded), id, i, rm.Section, rm.Content, rm.Reason, rm.LastReferenced)
		if err != nil {
			return nil, fmt.Errorf("insert removal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Run{ID: id, RecordedAt: recorded, Report: *r}, nil
}

// GetRun loads a run by full id or by a unique id prefix.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, agent_id, status, error, recorded_at
		 FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, escapeLike(id)+"%")
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

	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(runs) > 1 && runs[0].ID != id:
		return nil, fmt.Errorf("ambiguous run id prefix %q", id)
	}
	run := runs[0]

	if err := s.loadDetails(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) loadDetails(ctx context.Context, run *Run) error {
	files, err := s.db.QueryContext(ctx, `SELECT path FROM run_files WHERE run_id = ? ORDER BY seq`, run.ID)
	if err != nil {
		return err
	}
	defer files.Close()
	for files.Next() {
		var p string
		if err := files.Scan(&p); err != nil {
			return err
		}
		run.FilesScanned = append(run.FilesScanned, p)
	}

	adds, err := s.db.QueryContext(ctx,
		`SELECT section, content, source_file, confidence, extracted_at
		 FROM additions WHERE run_id = ? ORDER BY seq`, run.ID)
	if err != nil {
		return err
	}
	defer adds.Close()
	for adds.Next() {
		a, err := scanAddition(adds)
		if err != nil {
			return err
		}
		run.Additions = append(run.Additions, a)
	}

	rms, err := s.db.QueryContext(ctx,
		`SELECT section, content, reason, last_referenced
		 FROM removals WHERE run_id = ? ORDER BY seq`, run.ID)
	if err != nil {
		return err
	}
	defer rms.Close()
	for rms.Next() {
		var rm model.RemovalEntry
		var last sql.NullString
		if err := rms.Scan(&rm.Section, &rm.Content, &rm.Reason, &last); err != nil {
			return err
		}
		if last.Valid {
			rm.LastReferenced = &last.String
		}
		run.Removals = append(run.Removals, rm)
	}

	return nil
}

// ListRuns lists recorded runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, p ListParams) ([]RunSummary, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := "1 = 1"
	args := []interface{}{}
	if p.Status != "" {
		where = "status = ?"
		args = append(args, p.Status)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, agent_id, status, error, files_scanned, additions, removals
		FROM runs WHERE `+where+`
		ORDER BY id DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var ts string
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &ts, &r.AgentID, &r.Status, &errMsg,
			&r.FilesScanned, &r.Additions, &r.Removals); err != nil {
			return nil, err
		}
		r.Timestamp = parseTime(ts)
		r.Error = errMsg.String
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{Report: model.Report{
		FilesScanned: []string{},
		Additions:    []model.SignalEntry{},
		Removals:     []model.RemovalEntry{},
	}}
	var ts, recorded string
	var errMsg sql.NullString

	if err := row.Scan(&run.ID, &ts, &run.AgentID, &run.Status, &errMsg, &recorded); err != nil {
		return nil, err
	}
	run.Timestamp = parseTime(ts)
	run.RecordedAt = parseTime(recorded)
	if errMsg.Valid {
		run.Error = &errMsg.String
	}
	return run, nil
}

func scanAddition(row scanner) (model.SignalEntry, error) {
	var a model.SignalEntry
	var extracted string
	if err := row.Scan(&a.Section, &a.Content, &a.SourceFile, &a.Confidence, &extracted); err != nil {
		return a, err
	}
	a.ExtractedAt = parseTime(extracted)
	return a, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
