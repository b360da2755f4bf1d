package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured games in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := cmdList(); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

func cmdList() int {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	if len(cfg.Games) == 0 {
		fmt.Fprintln(os.Stderr, "No games defined.")
		return 0
	}

	rows := make([][]string, 0, len(cfg.Games))
	for i, g := range cfg.Games {
		enabled := "no"
		if g.Enabled {
			enabled = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			g.Key,
			g.Name,
			string(g.EffectiveKind()),
			enabled,
			g.ProcessName,
		})
	}
	printTable(os.Stdout, []string{"#", "GAME", "NAME", "KIND", "ENABLED", "PROCESS"}, rows)
	return 0
}
