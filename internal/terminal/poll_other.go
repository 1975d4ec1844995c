//go:build !unix

package terminal

import "time"

// read hands blocking reads to a goroutine so the wait can time out
func (t *TTY) read(timeout time.Duration) ([]byte, error) {
	if t.reads == nil {
		t.reads = make(chan readResult, 1)
		go t.readLoop()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-t.reads:
		if len(r.data) == 0 {
			return nil, eofError(r.err)
		}
		return r.data, nil
	case <-timer.C:
		return nil, nil
	}
}

func (t *TTY) readLoop() {
	for {
		buf := make([]byte, 256)
		n, err := t.in.Read(buf)
		t.reads <- readResult{data: buf[:n], err: err}
		if n == 0 {
			return
		}
	}
}
