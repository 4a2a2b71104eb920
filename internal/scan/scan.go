// Package scan selects recently modified daily notes under a directory tree.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"

	"github.com/rcliao/memory-curator/internal/model"
)

// MarkdownExt is the only extension considered a daily note.
const MarkdownExt = ".md"

// Selector walks Root and keeps markdown files modified within the last Days.
type Selector struct {
	Root    string
	Days    int
	exclude []glob.Glob
	logger  *slog.Logger
}

// NewSelector compiles the exclude patterns. Patterns are matched against the
// slash-separated path relative to root and against the base name; `**`
// crosses directories, `*` does not.
func NewSelector(root string, days int, exclude []string, logger *slog.Logger) (*Selector, error) {
	s := &Selector{Root: root, Days: days, logger: logger}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, model.Errorf(model.KindConfigInvalid, "compile exclude", "", "pattern %q: %w", pattern, err)
		}
		s.exclude = append(s.exclude, g)
	}
	return s, nil
}

// Select returns matching files in lexical walk order. A file qualifies when
// its mtime lies in the closed interval [now-Days, now]. Symlinked notes are
// followed; broken links and unreadable entries are skipped.
func (s *Selector) Select(now time.Time) ([]string, error) {
	if _, err := os.Stat(s.Root); err != nil {
		kind := model.KindIO
		if os.IsNotExist(err) {
			kind = model.KindPathNotFound
		}
		return nil, &model.Error{Kind: kind, Op: "scan", Path: s.Root, Err: err}
	}

	cutoff := now.UTC().AddDate(0, 0, -s.Days)
	var files []string

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("scan: skipping entry", "path", path, "err", err)
			if d != nil && d.IsDir() && path != s.Root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != s.Root && s.excluded(path) {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != MarkdownExt || s.excluded(path) {
			return nil
		}

		info, err := d.Info()
		if err == nil && info.Mode()&fs.ModeSymlink != 0 {
			info, err = os.Stat(path)
		}
		if err != nil {
			s.logger.Debug("scan: skipping entry", "path", path, "err", err)
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		mod := info.ModTime()
		if mod.Before(cutoff) || mod.After(now) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("walk %s: %w", s.Root, err)
	}

	return files, nil
}

func (s *Selector) excluded(path string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, g := range s.exclude {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}
