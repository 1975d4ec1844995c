package source

import (
	"context"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"codetyper/internal/errors"
	"codetyper/internal/log"
)

type matcher struct {
	g glob.Glob
	// full patterns contain a separator and match the whole relative path;
	// the rest match the base name only
	full bool
}

func (m matcher) match(rel string) bool {
	if m.full {
		return m.g.Match(rel)
	}
	return m.g.Match(path.Base(rel))
}

// relativizer is implemented by sources whose identifiers carry a root prefix
type relativizer interface {
	Rel(id string) string
}

// Filtered narrows another source's files with include and exclude globs
type Filtered struct {
	Source
	include []matcher
	exclude []matcher
}

// NewFiltered wraps src with the given patterns. Without patterns src is
// returned unchanged.
func NewFiltered(src Source, include, exclude []string) (Source, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return src, nil
	}

	inc, err := compileAll(include, "invalid include pattern")
	if err != nil {
		return nil, err
	}
	exc, err := compileAll(exclude, "invalid exclude pattern")
	if err != nil {
		return nil, err
	}

	return &Filtered{Source: src, include: inc, exclude: exc}, nil
}

func compileAll(patterns []string, msg string) ([]matcher, error) {
	matchers := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.NewConfigError(msg, p, err)
		}
		matchers = append(matchers, matcher{g: g, full: strings.Contains(p, "/")})
	}
	return matchers, nil
}

// Name returns the wrapped source's name
func (f *Filtered) Name() string {
	return f.Source.Name() + " (filtered)"
}

// Unwrap returns the wrapped source
func (f *Filtered) Unwrap() Source {
	return f.Source
}

// Enumerate returns the wrapped source's files that pass the patterns
func (f *Filtered) Enumerate(ctx context.Context) ([]string, error) {
	files, err := f.Source.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	kept := files[:0]
	for _, id := range files {
		if f.Keep(id) {
			kept = append(kept, id)
		}
	}

	log.LogWithFields(log.F("source", f.Source.Name()), log.F("total", len(files)), log.F("kept", len(kept))).
		Debug("Applied file filter")
	return kept, nil
}

// Keep reports whether id passes the include and exclude patterns
func (f *Filtered) Keep(id string) bool {
	rel := id
	if r, ok := f.Source.(relativizer); ok {
		rel = r.Rel(id)
	}

	if len(f.include) > 0 && !anyMatch(f.include, rel) {
		return false
	}
	return !anyMatch(f.exclude, rel)
}

func anyMatch(matchers []matcher, rel string) bool {
	for _, m := range matchers {
		if m.match(rel) {
			return true
		}
	}
	return false
}
