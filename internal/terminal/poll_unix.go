//go:build unix

package terminal

import (
	"time"

	"golang.org/x/sys/unix"
)

// read waits for the input fd to become readable and reads what is there.
// A timeout or an interrupted wait yields no data and no error.
func (t *TTY) read(timeout time.Duration) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, pollMillis(timeout))
	if err == unix.EINTR {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	m, err := t.in.Read(t.buf)
	if m == 0 {
		return nil, eofError(err)
	}
	return t.buf[:m], nil
}

// pollMillis converts timeout for poll(2), rounding up so that a positive
// timeout never becomes a non-blocking zero
func pollMillis(timeout time.Duration) int {
	if timeout <= 0 {
		return 0
	}
	return int((timeout + time.Millisecond - 1) / time.Millisecond)
}
