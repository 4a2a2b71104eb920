// Package score assigns salience scores to candidate statements.
package score

import "strings"

// Scores are accumulated in tenths so that thresholds such as 0.7 compare
// exactly against the result.
const (
	baseTenths       = 5
	keywordTenths    = 1
	structuralTenths = 2
	maxTenths        = 10
)

const (
	Base = float64(baseTenths) / 10
	Max  = float64(maxTenths) / 10
)

// Keywords are matched case-insensitively, once each.
var Keywords = []string{"decision", "learned", "important", "critical", "completed", "project"}

// StructuralMarkers are matched with exact case.
var StructuralMarkers = []string{"Status", "Next Steps"}

// Score returns the salience of text in [Base, Max].
func Score(text string) float64 {
	tenths := baseTenths

	lower := strings.ToLower(text)
	for _, kw := range Keywords {
		if strings.Contains(lower, kw) {
			tenths += keywordTenths
		}
	}

	for _, marker := range StructuralMarkers {
		if strings.Contains(text, marker) {
			tenths += structuralTenths
			break
		}
	}

	return float64(min(tenths, maxTenths)) / 10
}
