package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := cmdValidate(); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

func cmdValidate() int {
	cfg, path, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed+colorBold, "[FAIL]"), err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "%s  %s  %s\n",
		color(colorGreen+colorBold, "[OK]"),
		path,
		color(colorDim, fmt.Sprintf("%d games, %d enabled", len(cfg.Games), len(cfg.EnabledGames()))))
	return 0
}
