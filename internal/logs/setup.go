package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// RunIDLayout is the time layout of a run id and of its log file name
	RunIDLayout = "20060102_150405"
	// TimestampLayout prefixes every log line
	TimestampLayout = "2006-01-02 15:04:05"
	// HistoryFile is the structured run ledger kept next to the run logs
	HistoryFile = "history.jsonl"
)

// Setup initializes the log directory
func Setup(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// RunID returns the id of a run started at t
func RunID(t time.Time) string {
	return t.Format(RunIDLayout)
}

// GetLogPath returns the full path for a run's log file
func GetLogPath(dir, runID string) string {
	return filepath.Join(dir, runID+".log")
}

// GetHistoryPath returns the path of the run ledger in dir
func GetHistoryPath(dir string) string {
	return filepath.Join(dir, HistoryFile)
}
