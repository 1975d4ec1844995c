package source

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"codetyper/internal/errors"
	"codetyper/internal/log"
)

// Local enumerates a directory tree on the local filesystem
type Local struct {
	root string
}

// NewLocal creates a local source rooted at root
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Name returns "local:<root>"
func (l *Local) Name() string {
	return "local:" + l.root
}

// Enumerate lists every non-directory entry under the root. Symlinks are
// followed; a symlinked directory whose target was already listed is skipped.
func (l *Local) Enumerate(ctx context.Context) ([]string, error) {
	visited := make(map[string]bool)
	return walk(ctx, l.root, func(ctx context.Context, dir string) ([]Entry, error) {
		return l.list(dir, visited)
	})
}

// Open opens the file at path id
func (l *Local) Open(_ context.Context, id string) (io.ReadCloser, error) {
	f, err := os.Open(id)
	if err != nil {
		return nil, errors.NewFileError("failed to open file", id, errors.FilesystemFailure, err)
	}
	return f, nil
}

// Rel returns id relative to the root with forward slashes
func (l *Local) Rel(id string) string {
	rel, err := filepath.Rel(l.root, id)
	if err != nil {
		return filepath.ToSlash(id)
	}
	return filepath.ToSlash(rel)
}

func (l *Local) list(dir string, visited map[string]bool) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("failed to read directory", dir, errors.FilesystemFailure, err)
	}

	if real, err := filepath.EvalSymlinks(dir); err == nil {
		visited[real] = true
	}

	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		kind := KindFile
		if entry.IsDir() {
			kind = KindDir
		} else if entry.Type()&fs.ModeSymlink != 0 {
			// Dangling links stay files and fail when loaded
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if real, err := filepath.EvalSymlinks(path); err == nil && visited[real] {
					log.LogWithFields(log.F("path", path), log.F("target", real)).Debug("Skipping symlink to a directory already listed")
					continue
				}
				kind = KindDir
			}
		}
		result = append(result, Entry{Path: path, Kind: kind})
	}
	return result, nil
}
