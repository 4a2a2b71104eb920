package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/memory-curator/internal/model"
)

func sampleReport(t *testing.T) *model.Report {
	t.Helper()
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r := model.NewReport("", at)
	if err := r.AddScanned("/notes/2026-03-01.md"); err != nil {
		t.Fatalf("add scanned: %v", err)
	}
	err := r.AddAdditions(model.SignalEntry{
		Section: model.SectionGeneral, Content: "Decision: adopt new format",
		SourceFile: "/notes/2026-03-01.md", Confidence: 0.6, ExtractedAt: at,
	})
	if err != nil {
		t.Fatalf("add additions: %v", err)
	}
	if err := r.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	return r
}

func TestEncode_JSONFieldNames(t *testing.T) {
	b, err := Encode(sampleReport(t), FormatJSON)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"timestamp", "agent_id", "files_scanned", "additions", "removals", "status", "error"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected key %q in %s", key, b)
		}
	}
	if fields["status"] != model.StatusCompleted {
		t.Errorf("expected completed status, got %v", fields["status"])
	}
	if fields["error"] != nil {
		t.Errorf("expected null error, got %v", fields["error"])
	}
	if removals, ok := fields["removals"].([]any); !ok || len(removals) != 0 {
		t.Errorf("expected empty removals array, got %v", fields["removals"])
	}
}

func TestEncode_YAML(t *testing.T) {
	b, err := Encode(sampleReport(t), FormatYAML)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var fields map[string]any
	if err := yaml.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["agent_id"] != model.DefaultAgentID {
		t.Errorf("expected default agent id, got %v", fields["agent_id"])
	}
	if !strings.Contains(string(b), "source_file: /notes/2026-03-01.md") {
		t.Errorf("expected source_file in yaml output:\n%s", b)
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(sampleReport(t), "xml")
	if model.KindOf(err) != model.KindSerialization {
		t.Errorf("expected KindSerialization, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "curator-report.json")
	if err := WriteFile(path, sampleReport(t), FormatJSON); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(b), "}\n") {
		t.Errorf("expected trailing newline, got %q", b)
	}
}

func TestWriteFile_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := WriteFile(filepath.Join(blocker, "report.json"), sampleReport(t), FormatJSON)
	if model.KindOf(err) != model.KindIO {
		t.Errorf("expected KindIO, got %v", err)
	}
}

func TestValidFormat(t *testing.T) {
	if !ValidFormat("yaml") || ValidFormat("toml") {
		t.Error("unexpected ValidFormat result")
	}
}
