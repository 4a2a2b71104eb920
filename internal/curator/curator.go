// Package curator consolidates recent daily notes into the long-term memory document.
//
// A curation pass runs Scan, Extract, Merge and Prune in order. Each stage
// returns its result instead of mutating shared state; Run records the
// results into a model.Report and completes it.
package curator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rcliao/memory-curator/internal/extract"
	"github.com/rcliao/memory-curator/internal/model"
	"github.com/rcliao/memory-curator/internal/scan"
	"github.com/rcliao/memory-curator/internal/score"
)

// Engine runs curation passes for one configuration.
type Engine struct {
	cfg      Config
	selector *scan.Selector
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger used for stage progress.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New validates cfg and returns an Engine. Both the memory directory and the
// memory document must already exist.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.AgentID == "" {
		cfg.AgentID = model.DefaultAgentID
	}

	e := &Engine{
		cfg:    cfg,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "curator")

	sel, err := scan.NewSelector(cfg.MemoryDir, cfg.DaysToReview, cfg.Exclude, e.logger)
	if err != nil {
		return nil, err
	}
	e.selector = sel

	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Scan returns the daily notes modified within the review window.
func (e *Engine) Scan(ctx context.Context) ([]string, error) {
	files, err := e.selector.Select(e.now())
	if err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "scan: selected files", "count", len(files), "dir", e.cfg.MemoryDir)
	return files, nil
}

// Extract reads each file, scores its headlines and keeps those at or above
// the confidence threshold. Results keep file order and are capped at
// MaxDailyEntries by dropping everything after the first N.
func (e *Engine) Extract(ctx context.Context, files []string) ([]model.SignalEntry, error) {
	signals := []model.SignalEntry{}

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, ioError("read daily note", file, err)
		}

		at := e.now().UTC()
		for headline := range extract.Headlines(string(b)) {
			confidence := score.Score(headline)
			if confidence < e.cfg.MinSignalConfidence {
				e.logger.DebugContext(ctx, "extract: below threshold", "headline", headline, "confidence", confidence)
				continue
			}
			signals = append(signals, model.SignalEntry{
				Section:     model.SectionGeneral,
				Content:     headline,
				SourceFile:  file,
				Confidence:  confidence,
				ExtractedAt: at,
			})
		}
	}

	if len(signals) > e.cfg.MaxDailyEntries {
		e.logger.InfoContext(ctx, "extract: capping signals", "found", len(signals), "max", e.cfg.MaxDailyEntries)
		signals = signals[:e.cfg.MaxDailyEntries]
	}
	e.logger.InfoContext(ctx, "extract: accepted signals", "count", len(signals))

	return signals, nil
}

// RenderEntry formats a signal as the block appended to the memory document.
func RenderEntry(s model.SignalEntry) string {
	return fmt.Sprintf("\n- **%s** (confidence: %.2f) — %s\n  Source: %s\n",
		s.Content, s.Confidence, extract.FormatTimestamp(s.ExtractedAt), s.SourceFile)
}

// Merge appends one block per signal to the memory document in a single
// write. It returns the merged entries in append order, or nothing if the
// write failed.
func (e *Engine) Merge(ctx context.Context, signals []model.SignalEntry) ([]model.SignalEntry, error) {
	doc, err := loadDocument(e.cfg.MemoryFile)
	if err != nil {
		return nil, err
	}

	merged := make([]model.SignalEntry, 0, len(signals))
	_, err = doc.transform(func(content string) (string, bool) {
		if len(signals) == 0 {
			return content, false
		}
		var sb strings.Builder
		sb.WriteString(content)
		for _, s := range signals {
			sb.WriteString(RenderEntry(s))
			merged = append(merged, s)
		}
		return sb.String(), true
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "merge: appended entries", "count", len(merged), "file", e.cfg.MemoryFile)
	return merged, nil
}

// Prune drops memory document lines whose embedded timestamp is strictly
// older than the prune threshold. Lines without a parseable timestamp are
// kept verbatim. The document is only rewritten when something was dropped.
func (e *Engine) Prune(ctx context.Context) ([]model.RemovalEntry, error) {
	doc, err := loadDocument(e.cfg.MemoryFile)
	if err != nil {
		return nil, err
	}

	cutoff := e.cfg.PruneCutoff(e.now())
	removals := []model.RemovalEntry{}

	_, err = doc.transform(func(content string) (string, bool) {
		var sb strings.Builder
		for _, piece := range strings.SplitAfter(content, "\n") {
			line := strings.TrimRight(piece, "\r\n")
			if ts, ok := extract.LineTimestamp(line); ok && ts.Before(cutoff) {
				last := extract.FormatTimestamp(ts)
				removals = append(removals, model.RemovalEntry{
					Section:        model.SectionUnknown,
					Content:        line,
					Reason:         model.ReasonAgeThresholdExceeded,
					LastReferenced: &last,
				})
				continue
			}
			sb.WriteString(piece)
		}
		return sb.String(), len(removals) > 0
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "prune: removed stale entries", "count", len(removals), "cutoff", extract.FormatTimestamp(cutoff))
	return removals, nil
}

// Run executes a full curation pass. On failure the returned report carries
// the error message and stays in the initialized status.
func (e *Engine) Run(ctx context.Context) (*model.Report, error) {
	report := model.NewReport(e.cfg.AgentID, e.now())
	fail := func(err error) (*model.Report, error) {
		report.Fail(err)
		e.logger.ErrorContext(ctx, "curation pass failed", "err", err)
		return report, err
	}

	files, err := e.Scan(ctx)
	if err != nil {
		return fail(err)
	}
	if err := report.AddScanned(files...); err != nil {
		return fail(err)
	}

	signals, err := e.Extract(ctx, files)
	if err != nil {
		return fail(err)
	}

	merged, err := e.Merge(ctx, signals)
	if err != nil {
		return fail(err)
	}
	if err := report.AddAdditions(merged...); err != nil {
		return fail(err)
	}

	removals, err := e.Prune(ctx)
	if err != nil {
		return fail(err)
	}
	if err := report.AddRemovals(removals...); err != nil {
		return fail(err)
	}

	if err := report.Complete(); err != nil {
		return fail(err)
	}
	e.logger.InfoContext(ctx, report.Summary())
	return report, nil
}
