// Package store keeps a SQLite ledger of curation runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/memory-curator/internal/model"
)

// ErrRunNotFound is returned when no recorded run matches an id.
var ErrRunNotFound = errors.New("run not found")

// Run is a recorded curation report.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	model.Report `yaml:",inline"`
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	AgentID      string    `json:"agent_id"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	FilesScanned int       `json:"files_scanned"`
	Additions    int       `json:"additions"`
	Removals     int       `json:"removals"`
}

// ListParams filters the run listing.
type ListParams struct {
	Status string
	Limit  int
}

// SearchParams holds parameters for searching merged entries.
type SearchParams struct {
	Query string
	Limit int
}

// AdditionMatch is a merged entry together with the run that merged it.
type AdditionMatch struct {
	RunID string    `json:"run_id"`
	RunAt time.Time `json:"run_at"`
	model.SignalEntry
}

// Store defines the run ledger interface.
type Store interface {
	// RecordRun stores a report, completed or failed, and returns the stored run.
	RecordRun(ctx context.Context, r *model.Report) (*Run, error)

	// GetRun loads a run by id or unique id prefix.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns lists runs, newest first.
	ListRuns(ctx context.Context, p ListParams) ([]RunSummary, error)

	// SearchAdditions finds merged entries whose content or source matches.
	SearchAdditions(ctx context.Context, p SearchParams) ([]AdditionMatch, error)

	// Close closes the store.
	Close() error
}
