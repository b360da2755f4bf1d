package task

//go:generate go tool mockgen -destination=mock_collaborators_test.go -package=task autogame.dev/internal/task Watcher,Launcher

import (
	"context"

	"autogame.dev/internal/process"
)

// Watcher answers whether a named process is currently running
type Watcher interface {
	IsRunning(ctx context.Context, name string) bool
}

// Launcher starts programs. Start returns once the program is launched;
// RunScript blocks until the script exits.
type Launcher interface {
	Start(ctx context.Context, spec process.LaunchSpec) (int, error)
	RunScript(ctx context.Context, spec process.LaunchSpec) error
}

// RecordSink receives closed run records
type RecordSink interface {
	Append(rec RunRecord) error
}
