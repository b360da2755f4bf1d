package logs

import (
	"fmt"
	"os"
	"time"
)

// Retention defines how many run logs are kept
type Retention struct {
	MaxFiles int           // Maximum number of run logs to keep (0 = unlimited)
	MaxAge   time.Duration // Maximum age of run logs to keep (0 = unlimited)
}

// DefaultRetention provides the default retention policy
var DefaultRetention = Retention{
	MaxFiles: 5,
}

// Prune removes old run logs according to the retention policy, oldest first.
// Files that do not look like run logs are never touched.
// Returns the number of files deleted and any error.
func Prune(dir string, retention Retention) (int, error) {
	return prune(dir, retention, time.Now())
}

func prune(dir string, retention Retention, now time.Time) (int, error) {
	runs, err := ListRuns(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list run logs: %w", err)
	}

	if len(runs) == 0 {
		return 0, nil
	}

	doomed := make(map[string]bool)

	// Apply age-based retention
	if retention.MaxAge > 0 {
		for _, run := range runs {
			if now.Sub(run.StartTime) > retention.MaxAge {
				doomed[run.Path] = true
			}
		}
	}

	// Apply count-based retention; runs are oldest first
	if retention.MaxFiles > 0 && len(runs) > retention.MaxFiles {
		for _, run := range runs[:len(runs)-retention.MaxFiles] {
			doomed[run.Path] = true
		}
	}

	deleted := 0
	for _, run := range runs {
		if !doomed[run.Path] {
			continue
		}
		if err := os.Remove(run.Path); err != nil {
			// Log error but continue with other files
			fmt.Fprintf(os.Stderr, "Warning: failed to delete log %s: %v\n", run.Path, err)
		} else {
			deleted++
		}
	}

	return deleted, nil
}
