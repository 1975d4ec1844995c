package reveal

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codetyper/internal/errors"
	"codetyper/pkg/testutils"
	"codetyper/pkg/types"
)

func content(text string) *types.FileContent {
	return &types.FileContent{ID: "x.txt", Text: text}
}

func TestRevealExhaustsAfterCeilLOver5Keys(t *testing.T) {
	for _, length := range []int{1, 4, 5, 6, 10, 11, 123} {
		t.Run(fmt.Sprintf("len=%d", length), func(t *testing.T) {
			text := strings.Repeat("abcdefghij", 13)[:length]
			keys := (length + 4) / 5

			// One spare key beyond what exhaustion needs
			term := testutils.NewFakeTerminal(testutils.Keys(strings.Repeat("k", keys+1))...)
			outcome, err := New(term, Options{}).Reveal(context.Background(), content(text))

			require.NoError(t, err)
			assert.Equal(t, Exhausted, outcome)
			assert.Equal(t, text, term.Output.String())
			assert.Equal(t, keys, term.Polls, "loop must stop as soon as nothing is left")
			assert.Len(t, term.Script, 1)
			assert.Equal(t, 1, term.DisableCalls)
			assert.Equal(t, 0, term.CookedWrites)
		})
	}
}

func TestRevealChunksAreFiveRunes(t *testing.T) {
	term := testutils.NewFakeTerminal(testutils.Keys("aaa")...)
	outcome, err := New(term, Options{}).Reveal(context.Background(), content("héllo wörld✓"))

	require.NoError(t, err)
	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, []string{"héllo", " wörl", "d✓"}, term.Chunks)
	assert.Equal(t, 3, term.Flushes)
}

func TestRevealEscapeStopsImmediately(t *testing.T) {
	term := testutils.NewFakeTerminal(
		testutils.Step{Event: types.Char('a')},
		testutils.Escape(),
		testutils.Step{Event: types.Char('b')},
	)
	outcome, err := New(term, Options{}).Reveal(context.Background(), content(strings.Repeat("x", 20)))

	require.NoError(t, err)
	assert.Equal(t, Escaped, outcome)
	assert.Equal(t, "xxxxx", term.Output.String())
	assert.Equal(t, 2, term.Polls)
	assert.Len(t, term.Script, 1, "nothing is read after Escape")
	assert.Equal(t, 1, term.EnableCalls)
	assert.Equal(t, 1, term.DisableCalls)
	assert.False(t, term.Raw())
}

func TestRevealIgnoresTimeoutsAndOtherKeys(t *testing.T) {
	steps := []testutils.Step{
		testutils.Timeout(),
		testutils.Other(),
		testutils.Timeout(),
		{Event: types.Char('q')},
		testutils.Other(),
		{Event: types.Char('q')},
	}
	term := testutils.NewFakeTerminal(steps...)
	outcome, err := New(term, Options{}).Reveal(context.Background(), content("0123456789"))

	require.NoError(t, err)
	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, "0123456789", term.Output.String())
	assert.Equal(t, len(steps), term.Polls)
}

func TestRevealUsesPollInterval(t *testing.T) {
	term := testutils.NewFakeTerminal(append([]testutils.Step{testutils.Timeout()}, testutils.Keys("a")...)...)
	_, err := New(term, Options{}).Reveal(context.Background(), content("ab"))
	require.NoError(t, err)
	for _, d := range term.PollTimeouts {
		assert.Equal(t, 500*time.Millisecond, d)
	}

	term = testutils.NewFakeTerminal(testutils.Keys("a")...)
	_, err = New(term, Options{PollInterval: 20 * time.Millisecond, ChunkSize: 1}).Reveal(context.Background(), content("a"))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, term.PollTimeouts)
}

func TestRevealCustomChunkSize(t *testing.T) {
	term := testutils.NewFakeTerminal(testutils.Keys("abc")...)
	outcome, err := New(term, Options{ChunkSize: 2}).Reveal(context.Background(), content("abcde"))

	require.NoError(t, err)
	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, []string{"ab", "cd", "e"}, term.Chunks)
}

func TestRevealEmptyContent(t *testing.T) {
	term := testutils.NewFakeTerminal()
	outcome, err := New(term, Options{}).Reveal(context.Background(), content(""))

	require.NoError(t, err)
	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, 0, term.Polls)
	assert.Equal(t, 1, term.Clears)
	assert.Equal(t, 1, term.DisableCalls)
}

func TestRevealEnableFailure(t *testing.T) {
	term := testutils.NewFakeTerminal(testutils.Keys("a")...)
	term.EnableErr = fmt.Errorf("inappropriate ioctl for device")

	outcome, err := New(term, Options{}).Reveal(context.Background(), content("ab"))
	require.Error(t, err)
	assert.Equal(t, Aborted, outcome)
	assert.True(t, errors.IsTerminalModeFailure(err))
	assert.Equal(t, 0, term.DisableCalls, "nothing to restore when raw mode never started")
	assert.Equal(t, 0, term.Clears)
	assert.Equal(t, 0, term.Polls)
}

func TestRevealRestoreFailureIsReported(t *testing.T) {
	term := testutils.NewFakeTerminal(testutils.Keys("a")...)
	term.DisableErr = fmt.Errorf("bad file descriptor")

	outcome, err := New(term, Options{}).Reveal(context.Background(), content("ab"))
	require.Error(t, err)
	assert.Equal(t, Aborted, outcome)
	assert.True(t, errors.IsTerminalModeFailure(err))
	assert.Contains(t, err.Error(), "failed to restore terminal mode")
	assert.Equal(t, 1, term.DisableCalls)
}

func TestRevealRestoresAfterErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(term *testutils.FakeTerminal)
		msg   string
	}{
		{
			name:  "poll error",
			setup: func(term *testutils.FakeTerminal) { term.Script = []testutils.Step{{Err: fmt.Errorf("EOF")}} },
			msg:   "failed to read terminal input",
		},
		{
			name:  "clear error",
			setup: func(term *testutils.FakeTerminal) { term.ClearErr = fmt.Errorf("broken pipe") },
			msg:   "failed to clear screen",
		},
		{
			name:  "write error",
			setup: func(term *testutils.FakeTerminal) { term.WriteErr = fmt.Errorf("broken pipe") },
			msg:   "failed to write to terminal",
		},
		{
			name: "restore also fails",
			setup: func(term *testutils.FakeTerminal) {
				term.ClearErr = fmt.Errorf("broken pipe")
				term.DisableErr = fmt.Errorf("bad file descriptor")
			},
			msg: "failed to clear screen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := testutils.NewFakeTerminal(testutils.Keys("a")...)
			tt.setup(term)

			outcome, err := New(term, Options{}).Reveal(context.Background(), content("abcdefgh"))
			require.Error(t, err)
			assert.Equal(t, Aborted, outcome)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, errors.IsTerminalModeFailure(err))
			assert.Equal(t, 1, term.DisableCalls)
			assert.False(t, term.Raw())
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "escaped", Escaped.String())
	assert.Equal(t, "aborted", Aborted.String())
}

func TestRevealStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	steps := []testutils.Step{{Event: types.Char('a')}}
	for i := 0; i < 100; i++ {
		steps = append(steps, testutils.Timeout())
	}
	steps = append(steps, testutils.Escape())
	term := testutils.NewFakeTerminal(steps...)
	term.OnPoll = func(polls int) {
		if polls == 1 {
			cancel()
		}
	}

	outcome, err := New(term, Options{}).Reveal(ctx, content(strings.Repeat("x", 20)))
	require.Error(t, err)
	assert.Equal(t, Aborted, outcome)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "xxxxx", term.Output.String())
	assert.Equal(t, 1, term.Polls, "no polling after cancellation")
	assert.Equal(t, 1, term.DisableCalls)
	assert.False(t, term.Raw())
}

func TestRevealCancelledBeforeFirstPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	term := testutils.NewFakeTerminal(testutils.Keys("a")...)
	term.OnEnable = cancel

	outcome, err := New(term, Options{}).Reveal(ctx, content("ab"))
	require.Error(t, err)
	assert.Equal(t, Aborted, outcome)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, term.Polls)
	assert.Equal(t, 1, term.DisableCalls)
}
