package store

import (
	"context"
	"testing"
	"time"

	"github.com/rcliao/memory-curator/internal/model"
)

func TestSearchAdditions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r := model.NewReport("", time.Now())
	err := r.AddAdditions(
		model.SignalEntry{Content: "Decision: adopt new format", SourceFile: "/notes/2026-03-01.md", Confidence: 0.6},
		model.SignalEntry{Content: "Project Status update", SourceFile: "/notes/2026-03-02.md", Confidence: 0.8},
		model.SignalEntry{Content: "100% coverage learned", SourceFile: "/notes/2026-03-02.md", Confidence: 0.6},
	)
	if err != nil {
		t.Fatalf("add additions: %v", err)
	}
	if err := r.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	run, err := s.RecordRun(ctx, r)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	results, err := s.SearchAdditions(ctx, SearchParams{Query: "format"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].RunID != run.ID {
		t.Fatalf("expected 1 result from run %s, got %+v", run.ID, results)
	}

	// Source path matches
	results, _ = s.SearchAdditions(ctx, SearchParams{Query: "2026-03-02"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Content != "Project Status update" {
		t.Errorf("expected seq order within run, got %q", results[0].Content)
	}

	// LIKE wildcards are literal
	results, _ = s.SearchAdditions(ctx, SearchParams{Query: "100%"})
	if len(results) != 1 {
		t.Errorf("expected 1 literal match, got %d", len(results))
	}
	results, _ = s.SearchAdditions(ctx, SearchParams{Query: "%"})
	if len(results) != 1 {
		t.Errorf("expected %% to match literally, got %d", len(results))
	}

	results, _ = s.SearchAdditions(ctx, SearchParams{Query: "javascript"})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}

	results, _ = s.SearchAdditions(ctx, SearchParams{Query: "", Limit: 2})
	if len(results) != 2 {
		t.Errorf("expected limit of 2, got %d", len(results))
	}
}
