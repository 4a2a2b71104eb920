// Package extract finds headline statements and embedded timestamps in markdown text.
package extract

import (
	"iter"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the calendar form written next to merged entries and
// parsed back when pruning. Both sides must use it.
const TimestampLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

// timestampLayoutNoZone is accepted when a line carries no zone offset.
const timestampLayoutNoZone = "Mon, 2 Jan 2006 15:04:05"

var (
	headlineRe  = regexp.MustCompile(`^#+[ \t]+(.+)$`)
	timestampRe = regexp.MustCompile(`\w{3},\s+\d{1,2}\s+\w{3}\s+\d{4}\s+\d{2}:\d{2}:\d{2}(?:\s+[+-]\d{4})?`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Headlines yields the text of every heading line in document order.
// The sequence is lazy and can be ranged over any number of times.
func Headlines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(text) {
			line = strings.TrimRight(line, "\r\n")
			m := headlineRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if !yield(m[1]) {
				return
			}
		}
	}
}

// FindTimestamp returns the first embedded calendar timestamp in line.
func FindTimestamp(line string) (string, bool) {
	s := timestampRe.FindString(line)
	if s == "" {
		return "", false
	}
	return s, true
}

// FormatTimestamp renders t in the shared layout, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a timestamp found by FindTimestamp. A missing zone
// offset is read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(timestampLayoutNoZone, s, time.UTC)
}

// LineTimestamp finds and parses the timestamp embedded in line.
// ok is false when there is none or it does not parse.
func LineTimestamp(line string) (t time.Time, ok bool) {
	s, found := FindTimestamp(line)
	if !found {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
