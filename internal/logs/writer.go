package logs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

const maxRunIDAttempts = 60

type syncer interface {
	Sync() error
}

// Logger writes timestamped lines to the run log file and the console.
// Every file write is synced so a crash or a closed console window loses
// at most the line being written.
type Logger struct {
	mu      sync.Mutex
	file    io.Writer
	console io.Writer
	closer  io.Closer
	now     func() time.Time
	path    string
	runID   string

	// width of the status line currently on the console, 0 when none
	statusWidth int
}

// Open creates the log file for a run started at start inside dir.
// console may be nil to log to the file only.
func Open(dir string, start time.Time, console io.Writer) (*Logger, error) {
	if err := Setup(dir); err != nil {
		return nil, err
	}

	// a run id names exactly one file; later runs in the same second move forward
	var (
		runID string
		path  string
		file  *os.File
		err   error
	)
	for i := 0; i < maxRunIDAttempts; i++ {
		runID = RunID(start.Add(time.Duration(i) * time.Second))
		path = GetLogPath(dir, runID)
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil || !os.IsExist(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewLogger(file, console, time.Now)
	l.closer = file
	l.path = path
	l.runID = runID
	return l, nil
}

// NewLogger builds a Logger over arbitrary writers
func NewLogger(file, console io.Writer, now func() time.Time) *Logger {
	if file == nil {
		file = io.Discard
	}
	if console == nil {
		console = io.Discard
	}
	if now == nil {
		now = time.Now
	}
	return &Logger{file: file, console: console, now: now}
}

// Path returns the log file path, empty for loggers built with NewLogger
func (l *Logger) Path() string {
	return l.path
}

// RunID returns the id of the run this logger belongs to
func (l *Logger) RunID() string {
	return l.runID
}

// Printf logs a line to console and file
func (l *Logger) Printf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...), true)
}

// Warnf logs a warning line to console and file
func (l *Logger) Warnf(format string, args ...any) {
	l.write("警告: "+fmt.Sprintf(format, args...), true)
}

// Errorf logs an error line to console and file
func (l *Logger) Errorf(format string, args ...any) {
	l.write("错误: "+fmt.Sprintf(format, args...), true)
}

// FileOnly logs a line to the file without echoing it
func (l *Logger) FileOnly(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...), false)
}

// Status replaces the transient console status line. Nothing reaches the file.
func (l *Logger) Status(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	pad := ""
	if l.statusWidth > width {
		pad = strings.Repeat(" ", l.statusWidth-width)
	}
	fmt.Fprintf(l.console, "\r%s%s", msg, pad)
	l.statusWidth = width
}

// ClearStatus removes the status line from the console
func (l *Logger) ClearStatus() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearStatusLocked()
}

func (l *Logger) clearStatusLocked() {
	if l.statusWidth == 0 {
		return
	}
	fmt.Fprintf(l.console, "\r%s\r", strings.Repeat(" ", l.statusWidth))
	l.statusWidth = 0
}

func (l *Logger) write(msg string, echo bool) {
	line := fmt.Sprintf("[%s] %s\n", l.now().Format(TimestampLayout), msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if echo {
		l.clearStatusLocked()
		_, _ = io.WriteString(l.console, line)
	}
	if _, err := io.WriteString(l.file, line); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write log file: %v\n", err)
		return
	}
	if s, ok := l.file.(syncer); ok {
		_ = s.Sync()
	}
}

// Close ends any status line and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clearStatusLocked()
	if l.closer != nil {
		err := l.closer.Close()
		l.closer = nil
		return err
	}
	return nil
}
