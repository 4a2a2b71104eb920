package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithWriter(&buf))
	l.Info("scan: selected files", "count", 3)

	out := buf.String()
	for _, want := range []string{"scan: selected files", "count=3", "level=INFO"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf)).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug filtered, got %q", buf.String())
	}

	New(WithWriter(&buf), WithDebug(true)).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf), WithJSON(true), WithPretty(true)).Info("structured", "count", 42)

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if parsed["msg"] != "structured" {
		t.Errorf("expected msg structured, got %v", parsed["msg"])
	}
	if parsed["count"] != float64(42) {
		t.Errorf("expected count 42, got %v", parsed["count"])
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf), WithPretty(true)).Info("pretty output", "file", "MEMORY.md")

	out := buf.String()
	if !strings.Contains(out, "pretty output") || !strings.Contains(out, "MEMORY.md") {
		t.Errorf("unexpected pretty output %q", out)
	}
}

func TestNew_Writers(t *testing.T) {
	var a, b bytes.Buffer
	New(WithWriters(&a, &b)).Warn("both")
	if !strings.Contains(a.String(), "both") || !strings.Contains(b.String(), "both") {
		t.Errorf("expected output on both writers, got %q and %q", a.String(), b.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l.Enabled(t.Context(), 12) {
		t.Error("expected nop logger to be disabled")
	}
}
