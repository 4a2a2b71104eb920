package curator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rcliao/memory-curator/internal/model"
)

// document is a memory document read in full. Every merge or prune loads a
// fresh copy; nothing is cached between operations.
type document struct {
	path    string
	content string
	mode    fs.FileMode
}

func loadDocument(path string) (*document, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, ioError("read memory document", path, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, ioError("read memory document", path, err)
	}
	b, err := os.ReadFile(resolved)
	if err != nil {
		return nil, ioError("read memory document", path, err)
	}
	return &document{path: resolved, content: string(b), mode: info.Mode().Perm()}, nil
}

// transform applies fn and persists the result only when fn reports a change.
func (d *document) transform(fn func(string) (string, bool)) (bool, error) {
	next, changed := fn(d.content)
	if !changed {
		return false, nil
	}
	if !utf8.ValidString(next) {
		return false, &model.Error{Kind: model.KindCorrupted, Op: "write memory document", Path: d.path,
			Err: fmt.Errorf("content is not valid UTF-8")}
	}
	if err := d.persist(next); err != nil {
		return false, err
	}
	d.content = next
	return true, nil
}

// persist replaces the document through a temporary file in the same
// directory and a rename, so a crash leaves either the old or the new copy.
func (d *document) persist(content string) error {
	const op = "write memory document"

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return ioError(op, d.path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		cleanup()
		return ioError(op, d.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return ioError(op, d.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return ioError(op, d.path, err)
	}
	if err := os.Chmod(tmpPath, d.mode); err != nil {
		cleanup()
		return ioError(op, d.path, err)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		cleanup()
		return ioError(op, d.path, fmt.Errorf("atomic rename: %w", err))
	}
	return nil
}

func ioError(op, path string, err error) error {
	kind := model.KindIO
	if os.IsNotExist(err) {
		kind = model.KindPathNotFound
	}
	return &model.Error{Kind: kind, Op: op, Path: path, Err: err}
}
