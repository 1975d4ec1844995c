package types

import "fmt"

// KeyKind classifies a key event for the reveal loop
type KeyKind int

const (
	// KeyOther covers navigation, Enter, Tab, Backspace and anything else the loop ignores
	KeyOther KeyKind = iota
	// KeyChar is a character key, including Ctrl and Alt combinations
	KeyChar
	// KeyEscape ends the session
	KeyEscape
)

// String returns the kind's name
func (k KeyKind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyEscape:
		return "escape"
	default:
		return "other"
	}
}

// KeyEvent is one decoded key press
type KeyEvent struct {
	Kind KeyKind
	Rune rune // set for KeyChar
}

// String returns a readable form such as char('a') or escape
func (e KeyEvent) String() string {
	if e.Kind == KeyChar {
		return fmt.Sprintf("char(%q)", e.Rune)
	}
	return e.Kind.String()
}

// Char returns a KeyChar event for r
func Char(r rune) KeyEvent {
	return KeyEvent{Kind: KeyChar, Rune: r}
}
