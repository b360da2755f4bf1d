// Package history reconstructs task durations from past runs.
//
// The primary source is the previous run's text log: each task logs a start
// marker and an end marker, and the time between the two timestamps is the
// task's duration. The structured ledger is a secondary, append-only record.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"autogame.dev/internal/logs"
	"autogame.dev/internal/template"
)

const timestampPattern = `\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]\s*`

// TaskDuration is one task's duration in a past run
type TaskDuration struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	// Known is false when a marker was missing or a timestamp did not parse
	Known bool `json:"known"`
	// Fallback is set when the duration ends at the fallback marker
	Fallback bool `json:"fallback,omitempty"`
}

// Previous is what was found about a past run
type Previous struct {
	RunID     string         `json:"run_id,omitempty"`
	Path      string         `json:"path,omitempty"`
	Found     bool           `json:"found"`
	Durations []TaskDuration `json:"durations"`
}

// ParsePreviousRun reads the run log before the newest one in dir. The newest
// log belongs to the run in progress. Fewer than two logs, or any read
// problem, gives a Previous with Found=false. It never fails.
func ParsePreviousRun(dir string, markers []template.Markers) Previous {
	runs, err := logs.ListRuns(dir)
	if err != nil || len(runs) < 2 {
		return Previous{}
	}

	prev, err := ParseRun(runs[len(runs)-2].Path, markers)
	if err != nil {
		return Previous{}
	}
	return prev
}

// ParseLatestRun parses the newest run log in dir
func ParseLatestRun(dir string, markers []template.Markers) (Previous, error) {
	run, err := logs.ResolveRun(dir, "")
	if err != nil {
		return Previous{}, err
	}
	return ParseRun(run.Path, markers)
}

// ParseRun extracts every task's duration from one run log
func ParseRun(path string, markers []template.Markers) (Previous, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Previous{}, fmt.Errorf("failed to read run log: %w", err)
	}
	text := logs.DecodeText(data)

	prev := Previous{
		Path:      path,
		Found:     true,
		Durations: make([]TaskDuration, 0, len(markers)),
	}
	if base := filepath.Base(path); logs.IsRunLog(base) {
		prev.RunID = strings.TrimSuffix(base, ".log")
	}

	for _, m := range markers {
		prev.Durations = append(prev.Durations, extract(text, m))
	}
	return prev, nil
}

// extract finds the first start marker and the first end marker after it
func extract(text string, m template.Markers) TaskDuration {
	td := TaskDuration{Key: m.Key, Name: m.Name}

	startAt, startEnd, ok := findMarker(text, m.Start)
	if !ok {
		return td
	}
	rest := text[startEnd:]

	endAt, _, ok := findMarker(rest, m.End)
	if !ok {
		endAt, _, ok = findMarker(rest, m.Fallback)
		if !ok {
			return td
		}
		td.Fallback = true
	}

	if endAt.Before(startAt) {
		return td
	}
	td.Duration = endAt.Sub(startAt)
	td.Known = true
	return td
}

// findMarker returns the timestamp of the first line whose message is
// marker, and the offset just past the match
func findMarker(text, marker string) (time.Time, int, bool) {
	if marker == "" {
		return time.Time{}, 0, false
	}
	re, err := regexp.Compile(`(?m)` + timestampPattern + regexp.QuoteMeta(marker) + `[ \t\r]*$`)
	if err != nil {
		return time.Time{}, 0, false
	}

	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return time.Time{}, 0, false
	}
	ts, err := time.ParseInLocation(logs.TimestampLayout, text[loc[2]:loc[3]], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, loc[1], true
}
