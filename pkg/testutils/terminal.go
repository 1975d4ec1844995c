package testutils

import (
	"bytes"
	"errors"
	"time"

	"codetyper/pkg/types"
)

// ErrScriptExhausted is returned by FakeTerminal.Poll once every step was used
var ErrScriptExhausted = errors.New("fake terminal: script exhausted")

// Step is one scripted Poll result: an event, a timeout, or an error
type Step struct {
	Event   types.KeyEvent
	Timeout bool
	Err     error
}

// Keys scripts one character event per rune of s
func Keys(s string) []Step {
	steps := make([]Step, 0, len(s))
	for _, r := range s {
		steps = append(steps, Step{Event: types.Char(r)})
	}
	return steps
}

// Escape scripts an Escape key press
func Escape() Step {
	return Step{Event: types.KeyEvent{Kind: types.KeyEscape}}
}

// Other scripts an ignored key such as an arrow
func Other() Step {
	return Step{Event: types.KeyEvent{Kind: types.KeyOther}}
}

// Timeout scripts a poll that sees no input
func Timeout() Step {
	return Step{Timeout: true}
}

// FakeTerminal replays a script of key events and records what the reveal
// engine does with it
type FakeTerminal struct {
	Script []Step

	EnableErr  error
	DisableErr error
	ClearErr   error
	WriteErr   error
	// OnEnable runs after raw mode is switched on
	OnEnable func()
	// OnPoll runs after each poll with the number of polls so far
	OnPoll func(polls int)

	Output       bytes.Buffer
	EnableCalls  int
	DisableCalls int
	Clears       int
	Flushes      int
	Polls        int
	PollTimeouts []time.Duration
	// CookedWrites counts writes made while raw mode was off
	CookedWrites int
	// Chunks holds the output of each write
	Chunks []string

	raw bool
}

// NewFakeTerminal creates a terminal that replays steps
func NewFakeTerminal(steps ...Step) *FakeTerminal {
	return &FakeTerminal{Script: steps}
}

// Raw reports whether raw mode is currently on
func (f *FakeTerminal) Raw() bool {
	return f.raw
}

func (f *FakeTerminal) EnableRawMode() error {
	f.EnableCalls++
	if f.EnableErr != nil {
		return f.EnableErr
	}
	f.raw = true
	if f.OnEnable != nil {
		f.OnEnable()
	}
	return nil
}

func (f *FakeTerminal) DisableRawMode() error {
	f.DisableCalls++
	f.raw = false
	return f.DisableErr
}

func (f *FakeTerminal) Clear() error {
	f.Clears++
	return f.ClearErr
}

func (f *FakeTerminal) Write(p []byte) (int, error) {
	if f.WriteErr != nil {
		return 0, f.WriteErr
	}
	if !f.raw {
		f.CookedWrites++
	}
	f.Chunks = append(f.Chunks, string(p))
	return f.Output.Write(p)
}

func (f *FakeTerminal) Flush() error {
	f.Flushes++
	return nil
}

func (f *FakeTerminal) Poll(timeout time.Duration) (types.KeyEvent, bool, error) {
	f.Polls++
	f.PollTimeouts = append(f.PollTimeouts, timeout)
	if f.OnPoll != nil {
		defer f.OnPoll(f.Polls)
	}
	if len(f.Script) == 0 {
		return types.KeyEvent{}, false, ErrScriptExhausted
	}

	step := f.Script[0]
	f.Script = f.Script[1:]
	if step.Err != nil {
		return types.KeyEvent{}, false, step.Err
	}
	if step.Timeout {
		return types.KeyEvent{}, false, nil
	}
	return step.Event, true, nil
}
