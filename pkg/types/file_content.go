package types

import (
	"fmt"
	"path"
	"unicode/utf8"
)

// FileContent is the validated text of a selected file together with the
// identifier it was loaded from. Text is always valid UTF-8.
type FileContent struct {
	ID   string `json:"id"`
	Text string `json:"-"`
}

// Name returns the base name of the identifier
func (f *FileContent) Name() string {
	return path.Base(f.ID)
}

// Len returns the number of characters (runes) in the content
func (f *FileContent) Len() int {
	return utf8.RuneCountInString(f.Text)
}

// String returns a short human-readable description
func (f *FileContent) String() string {
	return fmt.Sprintf("%s (%d characters)", f.ID, f.Len())
}
