package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autogame.dev/internal/logs"
)

func newLogsCmd() *cobra.Command {
	var (
		logsLines  int
		logsFilter string
	)

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Show a run log (default: the newest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) == 1 {
				runID = args[0]
			}
			if code := cmdLogs(runID, logsLines, logsFilter); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&logsLines, "lines", 0, "Number of lines to tail (0 = all)")
	cmd.Flags().StringVar(&logsFilter, "filter", "", "Regex pattern to filter lines")

	return cmd
}

func cmdLogs(runID string, lines int, filter string) int {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	run, err := logs.ResolveRun(cfg.GlobalSettings.LogDir, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	logLines, err := logs.ReadLog(run.Path, logs.ReadOptions{Lines: lines, Filter: filter})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	if len(logLines) == 0 {
		fmt.Fprintln(os.Stderr, "No log output found.")
		return 0
	}

	for _, line := range logLines {
		fmt.Println(line)
	}
	return 0
}
