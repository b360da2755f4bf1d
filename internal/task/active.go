package task

import (
	"fmt"
	"os"
	"time"

	"autogame.dev/internal/process"
)

// ActiveFileObserver returns an observer that mirrors the task being
// supervised into the active task file under stateDir, for `status` to read.
// The file is removed when the task finishes.
func ActiveFileObserver(stateDir string) func(Event) {
	var started time.Time
	return func(ev Event) {
		switch ev.State {
		case StateFinished:
			process.ClearActive(stateDir)
			return
		case StateLaunchPending:
			started = ev.At
		}

		err := process.WriteActive(stateDir, process.ActiveTask{
			LauncherPID: os.Getpid(),
			PID:         ev.PID,
			RunID:       ev.RunID,
			TaskKey:     ev.TaskKey,
			TaskName:    ev.TaskName,
			ProcessName: ev.ProcessName,
			State:       ev.State.String(),
			StartedAt:   started,
			UpdatedAt:   ev.At,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write active task file: %v\n", err)
		}
	}
}
