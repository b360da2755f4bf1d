package logs

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ReadOptions contains options for reading log files
type ReadOptions struct {
	Lines  int    // Number of lines to tail (0 means all)
	Filter string // Regex pattern to filter lines (empty means no filter)
}

// ReadLog reads a run log with optional tailing and filtering
func ReadLog(path string, opts ReadOptions) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	lines, err := SplitLines(DecodeText(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	// Apply filter if specified
	if opts.Filter != "" {
		lines, err = filterLines(lines, opts.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to filter lines: %w", err)
		}
	}

	// Apply tail if specified
	if opts.Lines > 0 && len(lines) > opts.Lines {
		lines = lines[len(lines)-opts.Lines:]
	}

	return lines, nil
}

// SplitLines splits text on LF or CRLF
func SplitLines(text string) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// filterLines filters lines using a regex pattern
func filterLines(lines []string, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}

	var filtered []string
	for _, line := range lines {
		if re.MatchString(line) {
			filtered = append(filtered, line)
		}
	}

	return filtered, nil
}
