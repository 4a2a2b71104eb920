// Package report serializes curation reports.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/memory-curator/internal/model"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatYAML}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// Encode renders r in the given format. JSON output is indented.
func Encode(r *model.Report, format string) ([]byte, error) {
	const op = "encode report"

	var (
		b   []byte
		err error
	)
	switch format {
	case FormatJSON, "":
		b, err = json.MarshalIndent(r, "", "  ")
	case FormatYAML:
		b, err = yaml.Marshal(r)
	default:
		return nil, model.Errorf(model.KindSerialization, op, "", "unsupported format %q", format)
	}
	if err != nil {
		return nil, &model.Error{Kind: model.KindSerialization, Op: op, Err: err}
	}
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b, nil
}

// WriteFile encodes r and writes it to path, creating parent directories.
func WriteFile(path string, r *model.Report, format string) error {
	b, err := Encode(r, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.Error{Kind: model.KindIO, Op: "write report", Path: path, Err: err}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &model.Error{Kind: model.KindIO, Op: "write report", Path: path, Err: err}
	}
	return nil
}
