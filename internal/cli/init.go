package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"autogame.dev/internal/config"
	"autogame.dev/internal/dirs"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Long: `Create a starter config file with every known game disabled.
The file is written to --config, or ./config.json. A .yaml path writes YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := handleInit(force)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s  Created %s\n", color(colorGreen+colorBold, "[OK]"), path)
			fmt.Fprintln(os.Stderr, "Fill in each game's path and set enabled to true.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

// handleInit writes the example config and returns its absolute path
func handleInit(force bool) (string, error) {
	target := globalConfig
	if target == "" {
		target = dirs.ConfigFile
	}

	absPath, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !force {
		return "", fmt.Errorf("config file already exists: %s (use --force to overwrite)", absPath)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := config.Save(absPath, config.Example()); err != nil {
		return "", err
	}
	return absPath, nil
}
