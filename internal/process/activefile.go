package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autogame.dev/internal/dirs"
)

const activeFile = "active.json"

// ActiveTask is what gets persisted to disk while a task is being supervised,
// so another invocation can report on it
type ActiveTask struct {
	LauncherPID int       `json:"launcher_pid"`
	PID         int       `json:"pid,omitempty"`
	RunID       string    `json:"run_id"`
	TaskKey     string    `json:"task_key"`
	TaskName    string    `json:"task_name"`
	ProcessName string    `json:"process_name,omitempty"`
	State       string    `json:"state"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ActiveFilePath returns the location of the active task file under stateDir
func ActiveFilePath(stateDir string) string {
	if stateDir == "" {
		stateDir = dirs.StateDir
	}
	return filepath.Join(stateDir, activeFile)
}

// WriteActive persists the active task under stateDir
func WriteActive(stateDir string, data ActiveTask) error {
	path := ActiveFilePath(stateDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal active task: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}

// ReadActive loads the active task. A missing file returns nil, nil.
// A file left behind by a launcher that is no longer alive is removed.
func ReadActive(stateDir string) (*ActiveTask, error) {
	path := ActiveFilePath(stateDir)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var data ActiveTask
	if err := json.Unmarshal(b, &data); err != nil {
		// corrupt file, remove and skip
		ClearActive(stateDir)
		return nil, nil
	}
	if data.LauncherPID != 0 && !PIDAlive(data.LauncherPID) {
		ClearActive(stateDir)
		return nil, nil
	}
	return &data, nil
}

// ClearActive removes the active task file
func ClearActive(stateDir string) {
	_ = os.Remove(ActiveFilePath(stateDir))
}
