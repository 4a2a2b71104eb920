package extract

import (
	"slices"
	"testing"
	"time"
)

func TestHeadlines_DocumentOrder(t *testing.T) {
	text := "# Main\n## Sub\n### Deep\nNot a headline"

	got := slices.Collect(Headlines(text))
	want := []string{"Main", "Sub", "Deep"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestHeadlines_Restartable(t *testing.T) {
	seq := Headlines("# One\ntext\n## Two\r\n")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("expected identical runs, got %v and %v", first, second)
	}
	if len(first) != 2 || first[1] != "Two" {
		t.Errorf("expected [One Two], got %v", first)
	}
}

func TestHeadlines_StopsEarly(t *testing.T) {
	var got []string
	for h := range Headlines("# a\n# b\n# c\n") {
		got = append(got, h)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 {
		t.Errorf("expected 2 headlines before break, got %d", len(got))
	}
}

func TestHeadlines_RequiresWhitespace(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"no space", "#hashtag", 0},
		{"marker only", "#\nnext line", 0},
		{"indented", "  # indented", 0},
		{"tab", "#\tTabbed", 1},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Headlines(tt.text))
			if len(got) != tt.want {
				t.Errorf("expected %d headlines, got %v", tt.want, got)
			}
		})
	}
}

func TestFindTimestamp(t *testing.T) {
	line := "- **Adopt format** (confidence: 0.60) — Tue, 3 Mar 2026 09:15:00 +0000"
	got, ok := FindTimestamp(line)
	if !ok {
		t.Fatal("expected a timestamp")
	}
	if got != "Tue, 3 Mar 2026 09:15:00 +0000" {
		t.Errorf("unexpected match %q", got)
	}

	if _, ok := FindTimestamp("  Source: memory/2026-03-03.md"); ok {
		t.Error("expected no timestamp")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	at := time.Date(2026, 1, 5, 7, 8, 9, 0, time.FixedZone("CET", 3600))

	s := FormatTimestamp(at)
	if s != "Mon, 5 Jan 2026 06:08:09 +0000" {
		t.Errorf("unexpected rendering %q", s)
	}

	found, ok := FindTimestamp("entry — " + s + " trailing")
	if !ok || found != s {
		t.Fatalf("expected to find %q, got %q", s, found)
	}

	parsed, err := ParseTimestamp(found)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(at) {
		t.Errorf("expected %v, got %v", at, parsed)
	}
}

func TestParseTimestamp_NoZone(t *testing.T) {
	parsed, err := ParseTimestamp("Fri, 14 Jul 2017  02:40:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2017, 7, 14, 2, 40, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("expected %v, got %v", want, parsed)
	}
}

func TestLineTimestamp_Unparseable(t *testing.T) {
	if _, ok := LineTimestamp("Xyz, 99 Foo 2026 10:00:00"); ok {
		t.Error("expected unparseable timestamp to be reported as absent")
	}
	if _, ok := LineTimestamp("plain text"); ok {
		t.Error("expected no timestamp")
	}
}
