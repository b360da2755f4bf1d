package task

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"autogame.dev/internal/config"
	"autogame.dev/internal/logs"
)

// ManagerOptions configures a Manager
type ManagerOptions struct {
	// Console receives the echoed log lines and status display; nil for none
	Console io.Writer
	// Observer is passed to every supervisor
	Observer func(Event)
	// Records opens the record sink for a log directory; nil disables records
	Records func(logDir string) RecordSink
	Clock   Clock
}

// Manager coordinates runs over the configured games
type Manager struct {
	mu  sync.RWMutex
	cfg *config.Config

	watcher  Watcher
	launcher Launcher
	opts     ManagerOptions

	// runMu serialises runs; runs share the process table and the log dir
	runMu sync.Mutex
	dedup runGroup
}

// NewManager creates a new task manager
func NewManager(cfg *config.Config, watcher Watcher, launcher Launcher, opts ManagerOptions) *Manager {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	return &Manager{
		cfg:      cfg,
		watcher:  watcher,
		launcher: launcher,
		opts:     opts,
	}
}

// Config returns the current configuration
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// SetConfig swaps the configuration used by later runs
func (m *Manager) SetConfig(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// SelectTasks returns the games named by keys in the given order, or every
// game in configured order when keys is empty.
func (m *Manager) SelectTasks(keys []string) ([]config.Task, error) {
	cfg := m.Config()
	if len(keys) == 0 {
		return append([]config.Task(nil), cfg.Games...), nil
	}

	tasks := make([]config.Task, 0, len(keys))
	for _, key := range keys {
		t, ok := cfg.Game(key)
		if !ok {
			return nil, fmt.Errorf("game '%s' not found", key)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Run is one run: one log file, one supervisor
type Run struct {
	ID  string
	Log *logs.Logger
	// Dir is the log directory the run writes into
	Dir string

	supervisor *Supervisor
}

// Begin opens the log file of a new run and applies log retention.
// console overrides the manager's console when non-nil.
func (m *Manager) Begin(console io.Writer) (*Run, error) {
	cfg := m.Config()
	gs := cfg.GlobalSettings
	if console == nil {
		console = m.opts.Console
	}

	log, err := logs.Open(gs.LogDir, m.opts.Clock.Now(), console)
	if err != nil {
		return nil, err
	}

	retention := logs.Retention{
		MaxFiles: gs.MaxLogFiles,
		MaxAge:   time.Duration(gs.MaxLogAgeDays) * 24 * time.Hour,
	}
	if _, err := logs.Prune(gs.LogDir, retention); err != nil {
		log.Warnf("清理旧日志失败: %v", err)
	}

	var records RecordSink
	if m.opts.Records != nil {
		records = m.opts.Records(gs.LogDir)
	}

	sup := NewSupervisor(m.watcher, m.launcher, log, Options{
		RunID:        log.RunID(),
		PollInterval: seconds(gs.PollInterval),
		SettleWait:   seconds(gs.SettleWait),
		Observer:     m.opts.Observer,
		Records:      records,
	}).WithClock(m.opts.Clock)

	return &Run{ID: log.RunID(), Log: log, Dir: gs.LogDir, supervisor: sup}, nil
}

// Execute runs tasks in order
func (r *Run) Execute(ctx context.Context, tasks []config.Task) (*BatchResult, error) {
	return r.supervisor.RunBatch(ctx, tasks)
}

// Close closes the run log
func (r *Run) Close() error {
	return r.Log.Close()
}

// RunKeys runs the selected games in a fresh run. Runs are serialised, and
// concurrent calls for the same selection share one execution.
func (m *Manager) RunKeys(ctx context.Context, keys []string) (*BatchResult, error) {
	tasks, err := m.SelectTasks(keys)
	if err != nil {
		return nil, err
	}

	res, _, err := m.dedup.Do(keys, func() (*BatchResult, error) {
		m.runMu.Lock()
		defer m.runMu.Unlock()

		run, err := m.Begin(nil)
		if err != nil {
			return nil, err
		}
		defer run.Close()
		return run.Execute(ctx, tasks)
	})
	return res, err
}
