// Package source enumerates candidate files from a remote repository listing
// or a local directory tree. Both backends satisfy Source and share the same
// depth-first walk, so everything downstream is backend-agnostic.
package source

import (
	"context"
	"io"

	"codetyper/internal/log"
)

// Source produces file identifiers and opens them for reading.
type Source interface {
	// Name identifies the backend in logs
	Name() string
	// Enumerate returns every file under the source root. An empty result is not an error.
	Enumerate(ctx context.Context) ([]string, error)
	// Open returns the raw bytes of a file previously returned by Enumerate
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// EntryKind tells files from directories in a listing
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
)

// Entry is one item of a directory listing
type Entry struct {
	Path string
	Kind EntryKind
}

// lister returns the entries of one directory in listing order
type lister func(ctx context.Context, dir string) ([]Entry, error)

// walk expands root depth-first using an explicit stack of pending listings.
// Files come out in listing order with each subdirectory's files in place of
// the directory entry, the same order plain recursion would produce.
func walk(ctx context.Context, root string, list lister) ([]string, error) {
	entries, err := list(ctx, root)
	if err != nil {
		return nil, err
	}

	files := []string{}
	stack := [][]Entry{entries}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top := len(stack) - 1
		if len(stack[top]) == 0 {
			stack = stack[:top]
			continue
		}

		entry := stack[top][0]
		stack[top] = stack[top][1:]

		switch entry.Kind {
		case KindFile:
			files = append(files, entry.Path)
		case KindDir:
			children, err := list(ctx, entry.Path)
			if err != nil {
				return nil, err
			}
			log.Debugf("Listed %s: %d entries", entry.Path, len(children))
			stack = append(stack, children)
		}
	}

	return files, nil
}
