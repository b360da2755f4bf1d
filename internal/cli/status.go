package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"autogame.dev/internal/dirs"
	"autogame.dev/internal/logs"
	"autogame.dev/internal/process"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [process...]",
		Short: "Show which game processes are running and what autogame is doing",
		Long: `Report whether each process is running. Without arguments the
process names of the configured monitored games are checked.

The task currently supervised by an autogame run, and a running
"autogame serve", are shown as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := cmdStatus(args); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

func cmdStatus(names []string) int {
	if len(names) == 0 {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
			return 1
		}
		seen := make(map[string]bool)
		for _, g := range cfg.Games {
			if g.ProcessName != "" && !seen[g.ProcessName] {
				seen[g.ProcessName] = true
				names = append(names, g.ProcessName)
			}
		}
	}

	if len(names) > 0 {
		running := newWatcher().Running(context.Background(), names)
		rows := make([][]string, 0, len(names))
		for _, n := range names {
			state := "stopped"
			if running[n] {
				state = "running"
			}
			rows = append(rows, []string{n, state})
		}
		printTable(os.Stdout, []string{"PROCESS", "STATE"}, rows)
	}

	active, err := process.ReadActive(dirs.StateDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to read active task: %v\n", color(colorYellow, "Warning:"), err)
	}
	if active != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "%s  %s (%s)  %s\n",
			color(colorCyan+colorBold, "[ACTIVE]"),
			active.TaskName,
			active.State,
			color(colorDim, "for "+logs.FormatDuration(time.Since(active.StartedAt))))
		if active.PID != 0 {
			fmt.Fprintf(os.Stderr, "%s %s pid %d\n", color(colorDim, "Process:"), active.ProcessName, active.PID)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorDim, "Run:"), active.RunID)
	}

	if sf, err := process.ReadServerFile(dirs.StateDir); err == nil && sf != nil {
		fmt.Fprintf(os.Stderr, "%s %s (pid %d)\n", color(colorDim, "Server:"), sf.Addr, sf.PID)
	}
	return 0
}
