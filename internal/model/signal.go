// Package model defines the core curation data types.
package model

import "time"

// Classification placeholders. Entries are not classified yet; these values
// only keep the section field populated.
const (
	SectionGeneral = "General"
	SectionUnknown = "Unknown"
)

// ReasonAgeThresholdExceeded is recorded when a line is pruned because its
// embedded timestamp is older than the prune threshold.
const ReasonAgeThresholdExceeded = "age_threshold_exceeded"

// SignalEntry is a scored statement extracted from a daily note.
type SignalEntry struct {
	Section     string    `json:"section" yaml:"section"`
	Content     string    `json:"content" yaml:"content"`
	SourceFile  string    `json:"source_file" yaml:"source_file"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// RemovalEntry records a line dropped from the memory document.
type RemovalEntry struct {
	Section        string  `json:"section" yaml:"section"`
	Content        string  `json:"content" yaml:"content"`
	Reason         string  `json:"reason" yaml:"reason"`
	LastReferenced *string `json:"last_referenced" yaml:"last_referenced"`
}
