package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autogame.dev/internal/config"
	"autogame.dev/internal/dirs"
	"autogame.dev/internal/server"
)

func newServeCmd(version string) *cobra.Command {
	var (
		addr  string
		stdio bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start an MCP server exposing the games as tools.

By default the server listens for StreamableHTTP on --addr and registers
itself so "autogame run <game>" in this directory forwards to it. With
--stdio it speaks MCP over stdin/stdout instead.

Without a config file only the init and refresh_config tools are offered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdServe(version, addr, stdio)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on for HTTP")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve over stdin/stdout instead of HTTP")
	return cmd
}

func cmdServe(version, addr string, stdio bool) error {
	cfg, path, err := loadConfig()
	if err != nil {
		if !errors.Is(err, config.ErrConfigMissing) {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s no config file found, only init and refresh_config are available\n", color(colorYellow, "Warning:"))
		cfg = nil
		path = globalConfig
	}

	srv := server.NewServer(cfg, server.Options{
		ConfigPath: path,
		Version:    version,
		StateDir:   dirs.StateDir,
	})

	if stdio {
		return srv.Serve()
	}
	return srv.ServeHTTP(addr)
}
