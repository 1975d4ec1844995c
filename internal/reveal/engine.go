// Package reveal runs a typing session: it puts the terminal in raw mode and
// shows a file a few characters per keypress until the file is exhausted or
// the session is ended by Escape or cancellation.
package reveal

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"codetyper/internal/errors"
	"codetyper/internal/log"
	"codetyper/pkg/types"
)

// Default pacing
const (
	DefaultChunkSize    = 5
	DefaultPollInterval = 500 * time.Millisecond
)

// Terminal is the part of a terminal the engine drives
type Terminal interface {
	io.Writer
	// EnableRawMode switches to non-canonical, non-echoing input
	EnableRawMode() error
	// DisableRawMode restores the mode saved by EnableRawMode
	DisableRawMode() error
	// Clear blanks the visible screen
	Clear() error
	// Poll waits up to timeout for one key event; ok is false on timeout
	Poll(timeout time.Duration) (ev types.KeyEvent, ok bool, err error)
	// Flush pushes buffered output to the screen
	Flush() error
}

// Outcome tells how a session ended
type Outcome int

const (
	// Aborted: the session failed with an error
	Aborted Outcome = iota
	// Exhausted: every character was revealed
	Exhausted
	// Escaped: the user pressed Escape
	Escaped
)

func (o Outcome) String() string {
	switch o {
	case Exhausted:
		return "exhausted"
	case Escaped:
		return "escaped"
	default:
		return "aborted"
	}
}

// Options controls pacing; zero values take the defaults
type Options struct {
	ChunkSize    int
	PollInterval time.Duration
}

// Engine reveals file content on a terminal
type Engine struct {
	term Terminal
	opts Options
}

// New creates an engine for term
func New(term Terminal, opts Options) *Engine {
	if opts.ChunkSize < 1 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Engine{term: term, opts: opts}
}

// Reveal runs one session over content until it is exhausted, Escape is
// pressed or ctx is done. Raw mode is restored on every path out once it has
// been enabled; a restore failure is returned unless an earlier error is
// already being returned.
func (e *Engine) Reveal(ctx context.Context, content *types.FileContent) (outcome Outcome, err error) {
	logger := log.LogWithFields(log.F("session", uuid.NewString()), log.F("file", content.ID))

	if err := e.term.EnableRawMode(); err != nil {
		return Aborted, errors.NewKind("failed to enable raw mode", errors.TerminalModeFailure, err)
	}
	defer func() {
		if rerr := e.term.DisableRawMode(); rerr != nil {
			rerr = errors.NewKind("failed to restore terminal mode", errors.TerminalModeFailure, rerr)
			if err == nil {
				outcome, err = Aborted, rerr
				return
			}
			logger.WithError(rerr).Error("Terminal restore failed after session error")
		}
		logger.With(log.F("outcome", outcome.String())).Debug("Reveal session ended")
	}()

	if err := e.term.Clear(); err != nil {
		return Aborted, errors.NewKind("failed to clear screen", errors.TerminalModeFailure, err)
	}

	state := NewState(content.Text)
	logger.With(log.F("chars", state.Len()), log.F("chunk", e.opts.ChunkSize)).Debug("Reveal session started")

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return Aborted, errors.Wrap(err, "reveal session interrupted")
		}

		ev, ok, err := e.term.Poll(e.opts.PollInterval)
		if err != nil {
			return Aborted, errors.NewKind("failed to read terminal input", errors.TerminalModeFailure, err)
		}
		if !ok {
			continue
		}

		switch ev.Kind {
		case types.KeyChar:
			if _, err := io.WriteString(e.term, state.Next(e.opts.ChunkSize)); err != nil {
				return Aborted, errors.NewKind("failed to write to terminal", errors.TerminalModeFailure, err)
			}
			if err := e.term.Flush(); err != nil {
				return Aborted, errors.NewKind("failed to write to terminal", errors.TerminalModeFailure, err)
			}
		case types.KeyEscape:
			return Escaped, nil
		}
	}

	return Exhausted, nil
}
