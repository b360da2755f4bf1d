package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autogame.dev/internal/config"
	"autogame.dev/internal/dirs"
	"autogame.dev/internal/history"
	"autogame.dev/internal/process"
	"autogame.dev/internal/task"
)

// Global flags, bound to the root command's persistent flags
var (
	globalConfig     string
	globalWorkingDir string
	globalLocal      bool
)

// exitError carries a process exit code through cobra's error return
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// processWatcher is what the run and status commands query
type processWatcher interface {
	task.Watcher
	Running(ctx context.Context, names []string) map[string]bool
}

// Collaborators of the run commands. Tests swap them for fakes.
var (
	newWatcher = func() processWatcher {
		return process.NewWatcher()
	}
	newLauncher = func(cfg *config.Config) task.Launcher {
		return process.NewLauncher(cfg.GlobalSettings.Interpreter, os.Stdout, os.Stderr)
	}
	runClock = task.RealClock()
)

// Execute builds the command tree, runs it and returns the exit code
func Execute(version string) int {
	globalConfig = ""
	globalWorkingDir = ""
	globalLocal = false

	cmd := newRootCmd(version)
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}
	return 0
}

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "autogame",
		Short: "Launch game automation helpers in order and track how long they run",
		Long: `autogame starts the configured game automation helpers one after another,
waits for each monitored game to exit, and logs how long every task took.

Without a subcommand it shows the previous run's durations and a timed menu,
the same as "autogame run".`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyWorkingDir()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := cmdRun("", false); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&globalConfig, "config", "", "Path to config file (default: $"+dirs.ConfigEnv+", ./config.json, ./config.yaml)")
	pf.StringVar(&globalWorkingDir, "working-dir", "", "Directory to run in; relative paths in the config resolve against it")
	pf.BoolVar(&globalLocal, "local", false, "Run locally even when an autogame server is running")

	root.AddCommand(
		newRunCmd(),
		newListCmd(),
		newValidateCmd(),
		newHistoryCmd(),
		newLogsCmd(),
		newInitCmd(),
		newStatusCmd(),
		newServeCmd(version),
	)
	return root
}

// applyWorkingDir changes into --working-dir when it is set
func applyWorkingDir() error {
	if globalWorkingDir == "" {
		return nil
	}
	if err := os.Chdir(globalWorkingDir); err != nil {
		return fmt.Errorf("failed to change to working directory: %w", err)
	}
	return nil
}

// loadConfig loads the configuration and prints its warnings to stderr.
// It returns the path that was used.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadConfig(globalConfig)
	if err != nil {
		return nil, path, err
	}
	for _, w := range config.Check(cfg).Warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorYellow, "Warning:"), w)
	}
	return cfg, path, nil
}

// newManager wires a task manager the way every local run uses it
func newManager(cfg *config.Config) *task.Manager {
	return task.NewManager(cfg, newWatcher(), newLauncher(cfg), task.ManagerOptions{
		Console:  os.Stdout,
		Clock:    runClock,
		Observer: task.ActiveFileObserver(dirs.StateDir),
		Records: func(dir string) task.RecordSink {
			return history.NewLedger(dir)
		},
	})
}
