package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"
)

// LaunchSpec describes a program to start
type LaunchSpec struct {
	Path       string
	Args       []string
	WorkingDir string
}

// Launcher starts game helpers and scripts
type Launcher struct {
	// Interpreter runs .py scripts
	Interpreter string
	// Stdout and Stderr receive script output; nil discards it
	Stdout io.Writer
	Stderr io.Writer

	goos string
}

// NewLauncher creates a launcher for the current OS
func NewLauncher(interpreter string, stdout, stderr io.Writer) *Launcher {
	if interpreter == "" {
		interpreter = "python"
	}
	return &Launcher{
		Interpreter: interpreter,
		Stdout:      stdout,
		Stderr:      stderr,
		goos:        runtime.GOOS,
	}
}

// Start launches spec detached from the launcher and returns its PID without
// waiting for it. The child gets its own process group so a console Ctrl+C
// aimed at the launcher does not reach it.
func (l *Launcher) Start(ctx context.Context, spec LaunchSpec) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	spec = absSpec(spec)
	name, args := l.detachedCommand(spec)
	command := exec.Command(name, args...)
	command.Dir = workingDir(spec)
	command.SysProcAttr = getProcAttrs()

	if err := command.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", spec.Path, err)
	}
	pid := command.Process.Pid

	// Reap in the background; exit status does not matter for detached children
	go func() {
		_ = command.Wait()
	}()

	return pid, nil
}

// RunScript runs spec through the interpreter its extension calls for and
// blocks until it exits. Cancelling ctx kills the script's process tree.
func (l *Launcher) RunScript(ctx context.Context, spec LaunchSpec) error {
	spec = absSpec(spec)
	name, args := l.scriptCommand(spec)
	command := exec.CommandContext(ctx, name, args...)
	command.Dir = workingDir(spec)
	command.SysProcAttr = getProcAttrs()
	command.Stdout = l.Stdout
	command.Stderr = l.Stderr
	command.Cancel = func() error {
		return killProcessGroup(command.Process.Pid, syscall.SIGKILL)
	}
	command.WaitDelay = 5 * time.Second

	err := command.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with code %d", filepath.Base(spec.Path), exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", spec.Path, err)
	}
	return nil
}

// detachedCommand picks how a program is started without waiting on it.
// On Windows anything other than an .exe goes through "start" so file
// associations and shortcuts work like a double click.
func (l *Launcher) detachedCommand(spec LaunchSpec) (string, []string) {
	ext := strings.ToLower(filepath.Ext(spec.Path))
	if l.goos == "windows" && ext != ".exe" {
		args := append([]string{"/c", "start", "", spec.Path}, spec.Args...)
		return "cmd", args
	}
	return spec.Path, spec.Args
}

// scriptCommand picks the interpreter for a blocking script run
func (l *Launcher) scriptCommand(spec LaunchSpec) (string, []string) {
	ext := strings.ToLower(filepath.Ext(spec.Path))
	switch ext {
	case ".py", ".pyw":
		return l.Interpreter, append([]string{spec.Path}, spec.Args...)
	case ".bat", ".cmd":
		return "cmd", append([]string{"/c", spec.Path}, spec.Args...)
	case ".ps1":
		return "powershell", append([]string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-File", spec.Path}, spec.Args...)
	case ".sh":
		return "/bin/sh", append([]string{spec.Path}, spec.Args...)
	default:
		return spec.Path, spec.Args
	}
}

// absSpec makes a relative path absolute, since exec resolves it against
// the child's working directory
func absSpec(spec LaunchSpec) LaunchSpec {
	if filepath.IsAbs(spec.Path) || !strings.ContainsAny(spec.Path, `/\`) {
		return spec
	}
	if abs, err := filepath.Abs(spec.Path); err == nil {
		spec.Path = abs
	}
	return spec
}

// workingDir defaults to the program's own directory; many helpers resolve
// their assets relative to it
func workingDir(spec LaunchSpec) string {
	if spec.WorkingDir != "" {
		return spec.WorkingDir
	}
	if dir := filepath.Dir(spec.Path); dir != "." {
		return dir
	}
	cwd, _ := os.Getwd()
	return cwd
}
