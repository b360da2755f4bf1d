//go:build unix

package process

import (
	"fmt"
	"syscall"
)

// getProcAttrs puts the child in its own process group (PGID == PID) so
// the terminal's SIGINT goes to the launcher only, and a script's whole
// tree can be signalled at once.
func getProcAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcessGroup signals every process in the group led by pid
func killProcessGroup(pid int, sig syscall.Signal) error {
	err := syscall.Kill(-pid, sig)
	if err != nil {
		// ESRCH means the group is already gone
		if err == syscall.ESRCH {
			return nil
		}
		return fmt.Errorf("failed to signal process group %d: %w", pid, err)
	}
	return nil
}
