package cli

import (
	"context"
	"os"
	"time"

	"golang.org/x/term"

	"autogame.dev/internal/task"
)

const (
	keyCtrlC = 3
	// selectAll is the menu result that runs every task
	selectAll = -1
)

// parseMenuKey maps a keypress to a menu selection among n entries: digits
// 1-9 pick one entry, 0 or Enter picks all. ok is false for ignored keys.
func parseMenuKey(b byte, n int) (sel int, ok bool) {
	switch {
	case b == '0' || b == '\r' || b == '\n':
		return selectAll, true
	case b >= '1' && b <= '9' && int(b-'0') <= n:
		return int(b-'0') - 1, true
	}
	return 0, false
}

// readChoice waits for a valid key on keys until timeout expires, which
// selects all. Ctrl+C arrives as a byte in raw mode and interrupts.
func readChoice(ctx context.Context, keys <-chan byte, n int, timeout time.Duration) (int, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return selectAll, ctx.Err()
		case <-timer.C:
			return selectAll, nil
		case b, ok := <-keys:
			if !ok {
				return selectAll, nil
			}
			if b == keyCtrlC {
				return selectAll, task.ErrInterrupted
			}
			if sel, ok := parseMenuKey(b, n); ok {
				return sel, nil
			}
		}
	}
}

// waitForChoice reads single keypresses from in without waiting for Enter.
// Input that is not a terminal selects all at once.
func waitForChoice(ctx context.Context, in *os.File, n int, timeout time.Duration) (int, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) || timeout <= 0 {
		return selectAll, nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return selectAll, nil
	}
	defer term.Restore(fd, oldState)

	keys := make(chan byte)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			if nr, err := in.Read(buf); err != nil || nr == 0 {
				return
			}
			select {
			case keys <- buf[0]:
			case <-done:
				return
			}
		}
	}()

	return readChoice(ctx, keys, n, timeout)
}
