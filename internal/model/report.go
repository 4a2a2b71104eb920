package model

import (
	"errors"
	"fmt"
	"time"
)

// Report statuses. A report only ever moves from initialized to completed.
const (
	StatusInitialized = "initialized"
	StatusCompleted   = "completed"
)

// DefaultAgentID identifies the curator in reports.
const DefaultAgentID = "memory-curator-v0.1"

// ErrAlreadyCompleted is returned when a finalized report is modified.
var ErrAlreadyCompleted = errors.New("report already completed")

// Report accumulates what a curation pass scanned, added and removed.
type Report struct {
	Timestamp    time.Time      `json:"timestamp" yaml:"timestamp"`
	AgentID      string         `json:"agent_id" yaml:"agent_id"`
	FilesScanned []string       `json:"files_scanned" yaml:"files_scanned"`
	Additions    []SignalEntry  `json:"additions" yaml:"additions"`
	Removals     []RemovalEntry `json:"removals" yaml:"removals"`
	Status       string         `json:"status" yaml:"status"`
	Error        *string        `json:"error" yaml:"error"`
}

// NewReport returns an initialized, empty report.
func NewReport(agentID string, at time.Time) *Report {
	if agentID == "" {
		agentID = DefaultAgentID
	}
	return &Report{
		Timestamp:    at.UTC(),
		AgentID:      agentID,
		FilesScanned: []string{},
		Additions:    []SignalEntry{},
		Removals:     []RemovalEntry{},
		Status:       StatusInitialized,
	}
}

// Completed reports whether the report has been finalized.
func (r *Report) Completed() bool {
	return r.Status == StatusCompleted
}

// AddScanned records scanned file paths in order.
func (r *Report) AddScanned(paths ...string) error {
	if r.Completed() {
		return ErrAlreadyCompleted
	}
	r.FilesScanned = append(r.FilesScanned, paths...)
	return nil
}

// AddAdditions records merged entries in the order they were appended.
func (r *Report) AddAdditions(entries ...SignalEntry) error {
	if r.Completed() {
		return ErrAlreadyCompleted
	}
	r.Additions = append(r.Additions, entries...)
	return nil
}

// AddRemovals records pruned lines.
func (r *Report) AddRemovals(entries ...RemovalEntry) error {
	if r.Completed() {
		return ErrAlreadyCompleted
	}
	r.Removals = append(r.Removals, entries...)
	return nil
}

// Fail attaches an error message without changing the status.
func (r *Report) Fail(err error) {
	if err == nil || r.Completed() {
		return
	}
	msg := err.Error()
	r.Error = &msg
}

// Complete moves the report to the completed status. It can only happen once.
func (r *Report) Complete() error {
	if r.Completed() {
		return ErrAlreadyCompleted
	}
	r.Status = StatusCompleted
	return nil
}

// Summary returns a one-line count of the pass.
func (r *Report) Summary() string {
	return fmt.Sprintf("Curator: %d files scanned, %d added, %d removed",
		len(r.FilesScanned), len(r.Additions), len(r.Removals))
}
