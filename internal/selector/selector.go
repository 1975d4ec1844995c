// Package selector picks one file identifier uniformly at random.
package selector

import (
	"math/rand/v2"

	"codetyper/internal/errors"
)

// Selector draws from a random source. The zero value uses the
// runtime-seeded global source.
type Selector struct {
	rng *rand.Rand
}

// New returns a selector over rng; nil means the global source
func New(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Index returns a uniformly distributed index in [0, n). n must be positive.
func (s *Selector) Index(n int) int {
	if s == nil || s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// Select returns one of files, or an EmptyPool error if there are none
func (s *Selector) Select(files []string) (string, error) {
	if len(files) == 0 {
		return "", errors.ErrEmptyPool
	}
	return files[s.Index(len(files))], nil
}
