// Package terminal drives the controlling terminal for a reveal session:
// raw mode through golang.org/x/term, bounded waits for key presses, and
// buffered output.
package terminal

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"codetyper/internal/errors"
	"codetyper/internal/log"
	"codetyper/pkg/types"
)

// Fallback size when the terminal cannot report one
const (
	DefaultCols = 80
	DefaultRows = 20
)

const clearScreen = "\x1b[2J\x1b[H"

// TTY is a terminal backed by an input and an output file
type TTY struct {
	in    *os.File
	out   *os.File
	w     *bufio.Writer
	state *term.State

	pending []types.KeyEvent
	partial []byte
	buf     []byte
	reads   chan readResult
}

type readResult struct {
	data []byte
	err  error
}

// New creates a TTY reading keys from in and writing to out
func New(in, out *os.File) *TTY {
	return &TTY{
		in:  in,
		out: out,
		w:   bufio.NewWriter(out),
		buf: make([]byte, 256),
	}
}

// Open uses the process's standard input and output
func Open() *TTY {
	return New(os.Stdin, os.Stdout)
}

// EnableRawMode puts the input side in raw mode and keeps the previous state
func (t *TTY) EnableRawMode() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return errors.ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	t.state = state

	cols, rows := t.Size()
	log.LogWithFields(log.F("cols", cols), log.F("rows", rows)).Debug("Raw mode enabled")
	return nil
}

// DisableRawMode restores the state saved by EnableRawMode. Calling it
// again, or without raw mode, does nothing.
func (t *TTY) DisableRawMode() error {
	if t.state == nil {
		return nil
	}
	flushErr := t.w.Flush()
	state := t.state
	t.state = nil
	if err := term.Restore(int(t.in.Fd()), state); err != nil {
		return err
	}
	log.Debug("Raw mode disabled")
	return flushErr
}

// Raw reports whether raw mode is on
func (t *TTY) Raw() bool {
	return t.state != nil
}

// Clear blanks the screen and homes the cursor
func (t *TTY) Clear() error {
	if _, err := t.w.WriteString(clearScreen); err != nil {
		return err
	}
	return t.w.Flush()
}

// Write buffers p. In raw mode line feeds become CRLF since output
// post-processing is off.
func (t *TTY) Write(p []byte) (int, error) {
	if !t.Raw() {
		return t.w.Write(p)
	}
	if _, err := t.w.WriteString(crlf(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush pushes buffered output to the terminal
func (t *TTY) Flush() error {
	return t.w.Flush()
}

// Size returns the terminal's columns and rows
func (t *TTY) Size() (cols, rows int) {
	cols, rows, err := term.GetSize(int(t.out.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return DefaultCols, DefaultRows
	}
	return cols, rows
}

// Poll waits up to timeout for one key event. ok is false when nothing
// arrived in time. End of input is an error.
func (t *TTY) Poll(timeout time.Duration) (types.KeyEvent, bool, error) {
	if ev, ok := t.next(); ok {
		return ev, true, nil
	}

	data, err := t.read(timeout)
	if err != nil {
		return types.KeyEvent{}, false, err
	}
	if len(data) == 0 {
		return types.KeyEvent{}, false, nil
	}

	input := append(t.partial, data...)
	events, rest := Decode(input)
	t.partial = append([]byte(nil), rest...)
	t.pending = append(t.pending, events...)

	ev, ok := t.next()
	return ev, ok, nil
}

func (t *TTY) next() (types.KeyEvent, bool) {
	if len(t.pending) == 0 {
		return types.KeyEvent{}, false
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, true
}

func eofError(err error) error {
	if err == nil {
		err = io.EOF
	}
	return errors.Wrap(err, "terminal input closed")
}

func crlf(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
