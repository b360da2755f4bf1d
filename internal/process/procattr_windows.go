//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
)

// getProcAttrs starts the child in a new process group so Ctrl+C in the
// launcher's console is not delivered to it.
func getProcAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// killProcessGroup terminates a process and its child tree with
// taskkill /F /T. Exit code 128 means the process is already gone.
func killProcessGroup(pid int, _ syscall.Signal) error {
	err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 128 {
		return nil
	}
	return fmt.Errorf("failed to kill process tree (PID %d): %w", pid, err)
}
