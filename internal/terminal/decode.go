package terminal

import (
	"unicode/utf8"

	"codetyper/pkg/types"
)

const (
	keyNUL   = 0x00
	keyTab   = 0x09
	keyCR    = 0x0d
	keyCtrlZ = 0x1a
	keyEsc   = 0x1b
	keyDEL   = 0x7f
)

// Decode turns raw terminal input into key events. Bytes that could still
// begin a longer UTF-8 character are returned as rest so the caller can
// prepend them to the next read.
func Decode(b []byte) (events []types.KeyEvent, rest []byte) {
	for len(b) > 0 {
		c := b[0]
		switch {
		case c == keyEsc:
			ev, n := decodeEscape(b)
			if n == 0 {
				return events, b
			}
			events = append(events, ev)
			b = b[n:]

		case c == keyTab, c == keyCR, c == keyDEL:
			events = append(events, types.KeyEvent{Kind: types.KeyOther})
			b = b[1:]

		case c == keyNUL:
			// Ctrl+Space
			events = append(events, types.Char(' '))
			b = b[1:]

		case c <= keyCtrlZ:
			// Ctrl+letter reads as the letter, Ctrl+H and Ctrl+J included
			events = append(events, types.Char(rune('a'+c-1)))
			b = b[1:]

		case c < 0x20:
			// Ctrl+\ through Ctrl+_ read as '4' through '7'
			events = append(events, types.Char(rune('4'+c-0x1c)))
			b = b[1:]

		default:
			if !utf8.FullRune(b) {
				return events, b
			}
			r, n := utf8.DecodeRune(b)
			if r == utf8.RuneError && n <= 1 {
				events = append(events, types.KeyEvent{Kind: types.KeyOther})
			} else {
				events = append(events, types.Char(r))
			}
			b = b[n:]
		}
	}
	return events, nil
}

// decodeEscape handles input starting with ESC. n is zero when an Alt
// combination is cut inside a UTF-8 character.
func decodeEscape(b []byte) (types.KeyEvent, int) {
	if len(b) == 1 || b[1] == keyEsc {
		return types.KeyEvent{Kind: types.KeyEscape}, 1
	}

	switch b[1] {
	case '[':
		return types.KeyEvent{Kind: types.KeyOther}, csiLen(b)
	case 'O':
		n := 3
		if len(b) < n {
			n = len(b)
		}
		return types.KeyEvent{Kind: types.KeyOther}, n
	}

	if b[1] < 0x20 || b[1] == keyDEL {
		// Alt over a control key keeps the control key's meaning
		events, _ := Decode(b[1:2])
		return events[0], 2
	}
	if !utf8.FullRune(b[1:]) {
		return types.KeyEvent{}, 0
	}
	r, n := utf8.DecodeRune(b[1:])
	if r == utf8.RuneError && n <= 1 {
		return types.KeyEvent{Kind: types.KeyOther}, 1 + n
	}
	return types.Char(r), 1 + n
}

// csiLen returns the length of the control sequence at the start of b,
// or len(b) when the final byte has not arrived.
func csiLen(b []byte) int {
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return i + 1
		}
	}
	return len(b)
}
