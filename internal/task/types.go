package task

import (
	"errors"
	"fmt"
	"time"
)

// Outcome is the terminal state of one task in a run
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

var (
	// ErrExecutableNotFound is returned when the configured path does not exist
	ErrExecutableNotFound = errors.New("executable not found")
	// ErrLaunchFailure is returned when the OS refuses to start the program
	ErrLaunchFailure = errors.New("launch failed")
	// ErrLaunchTimeout is returned when the monitored process never appears
	ErrLaunchTimeout = errors.New("monitored process did not appear in time")
	// ErrInterrupted is returned when a run is cancelled by the user
	ErrInterrupted = errors.New("interrupted")
)

// Result represents the result of a task execution
type Result struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`

	// WaitedInternally is set when the task already consumed its wait
	// (monitored or timed), so the batch does not add post_execution_wait
	WaitedInternally bool `json:"-"`

	// Record is set when a monitored process was seen running
	Record *RunRecord `json:"record,omitempty"`
}

// Success reports whether the task completed successfully
func (r *Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// BatchResult represents the aggregated result of a run over several tasks
type BatchResult struct {
	Success   bool          `json:"success"`
	RunID     string        `json:"run_id,omitempty"`
	Results   []*Result     `json:"results"`
	Duration  time.Duration `json:"duration"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
}

// RunRecord is the structured account of one monitored process lifetime
type RunRecord struct {
	ID          string        `json:"id"`
	RunID       string        `json:"run_id"`
	TaskKey     string        `json:"task_key"`
	TaskName    string        `json:"task_name"`
	ProcessName string        `json:"process_name"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Duration    time.Duration `json:"duration"`
	Incomplete  bool          `json:"incomplete"`
}

func interruptedErr(cause error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}
