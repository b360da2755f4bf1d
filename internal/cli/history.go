package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autogame.dev/internal/config"
	"autogame.dev/internal/history"
	"autogame.dev/internal/logs"
	"autogame.dev/internal/task"
	"autogame.dev/internal/template"
)

func newHistoryCmd() *cobra.Command {
	var (
		runID   string
		records bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show task durations from a past run",
		Long: `Show how long each game took in a past run (default: the newest run),
as reconstructed from the run log.

With --records the structured run ledger is listed instead: one row per
monitored game session, including sessions cut short by an interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var code int
			if records {
				code = cmdRecords(runID, limit)
			} else {
				code = cmdHistory(runID)
			}
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id (YYYYMMDD_HHMMSS) to show instead of the newest run")
	cmd.Flags().BoolVar(&records, "records", false, "List the structured run ledger")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of ledger records (0 = all)")

	return cmd
}

func cmdHistory(runID string) int {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	prev, err := runDurations(cfg, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", color(colorDim, "Run:"), prev.RunID)
	rows := make([][]string, 0, len(prev.Durations))
	for _, d := range prev.Durations {
		duration := "-"
		if d.Known {
			duration = logs.FormatDuration(d.Duration)
			if d.Fallback {
				duration += " (launch only)"
			}
		}
		rows = append(rows, []string{d.Key, d.Name, duration})
	}
	printTable(os.Stdout, []string{"GAME", "NAME", "DURATION"}, rows)
	return 0
}

// runDurations mines one run log, the newest when runID is empty
func runDurations(cfg *config.Config, runID string) (history.Previous, error) {
	markers := template.ResolveAll(cfg.Games)
	if runID == "" {
		return history.ParseLatestRun(cfg.GlobalSettings.LogDir, markers)
	}
	run, err := logs.ResolveRun(cfg.GlobalSettings.LogDir, runID)
	if err != nil {
		return history.Previous{}, err
	}
	return history.ParseRun(run.Path, markers)
}

func cmdRecords(runID string, limit int) int {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	ledger := history.NewLedger(cfg.GlobalSettings.LogDir)
	var recs []task.RunRecord
	if runID != "" {
		recs, err = ledger.ForRun(strings.TrimSuffix(runID, ".log"))
	} else {
		recs, err = ledger.Records(limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "No run records found.")
		return 0
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		duration := logs.FormatDuration(r.Duration)
		if r.Incomplete {
			duration += " (interrupted)"
		}
		rows = append(rows, []string{
			r.RunID,
			r.TaskName,
			r.ProcessName,
			r.Start.Format(logs.TimestampLayout),
			duration,
		})
	}
	printTable(os.Stdout, []string{"RUN", "NAME", "PROCESS", "START", "DURATION"}, rows)
	return 0
}
