package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var runLogPattern = regexp.MustCompile(`^\d{8}_\d{6}\.log$`)

// RunInfo holds basic information about a run log
type RunInfo struct {
	RunID     string    `json:"run_id"`
	Path      string    `json:"path"`
	StartTime time.Time `json:"start_time"`
	Size      int64     `json:"size"`
}

// IsRunLog reports whether name is a run log file name
func IsRunLog(name string) bool {
	return runLogPattern.MatchString(name)
}

// ListRuns lists the run logs in dir, oldest first. File names sort
// lexically in start order. A missing directory yields no runs.
func ListRuns(dir string) ([]RunInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	runs := []RunInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !IsRunLog(entry.Name()) {
			continue
		}

		runID := strings.TrimSuffix(entry.Name(), ".log")
		start, err := time.ParseInLocation(RunIDLayout, runID, time.Local)
		if err != nil {
			continue
		}

		info := RunInfo{
			RunID:     runID,
			Path:      filepath.Join(dir, entry.Name()),
			StartTime: start,
		}
		if fi, err := entry.Info(); err == nil {
			info.Size = fi.Size()
		}
		runs = append(runs, info)
	}

	return runs, nil
}

// ResolveRun finds a run by id ("" means the latest). The id may carry the
// .log suffix.
func ResolveRun(dir, runID string) (RunInfo, error) {
	runs, err := ListRuns(dir)
	if err != nil {
		return RunInfo{}, err
	}
	if len(runs) == 0 {
		return RunInfo{}, fmt.Errorf("no run logs in %s", dir)
	}
	if runID == "" {
		return runs[len(runs)-1], nil
	}

	runID = strings.TrimSuffix(runID, ".log")
	for _, r := range runs {
		if r.RunID == runID {
			return r, nil
		}
	}
	return RunInfo{}, fmt.Errorf("run '%s' not found in %s", runID, dir)
}
