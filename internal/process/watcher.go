package process

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// lister returns the image names of all running processes
type lister func(ctx context.Context) ([]string, error)

// SystemWatcher answers whether a named process is running by querying the
// OS process table
type SystemWatcher struct {
	list lister
}

// NewWatcher creates a watcher backed by the OS process table
func NewWatcher() *SystemWatcher {
	return &SystemWatcher{list: listProcessNames}
}

// IsRunning reports whether a process with image name name is running.
// The match is exact and case-insensitive; a name without an extension
// also matches name.exe. Any query error reports false.
func (w *SystemWatcher) IsRunning(ctx context.Context, name string) bool {
	if name == "" {
		return false
	}
	names, err := w.list(ctx)
	if err != nil {
		return false
	}
	for _, n := range names {
		if MatchesName(n, name) {
			return true
		}
	}
	return false
}

// Running checks several names with a single process table query
func (w *SystemWatcher) Running(ctx context.Context, names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	running, err := w.list(ctx)
	for _, want := range names {
		out[want] = false
		if err != nil || want == "" {
			continue
		}
		for _, n := range running {
			if MatchesName(n, want) {
				out[want] = true
				break
			}
		}
	}
	return out
}

// MatchesName compares a running image name with a configured process name
func MatchesName(image, want string) bool {
	if strings.EqualFold(image, want) {
		return true
	}
	return filepath.Ext(want) == "" && strings.EqualFold(image, want+".exe")
}

// PIDAlive reports whether a process with the given PID exists
func PIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(pid))
	return err == nil && ok
}

func listProcessNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // Skip processes we can't get names for
		}
		names = append(names, name)
	}
	return names, nil
}
