package main

import (
	"os"

	"github.com/joho/godotenv"

	"autogame.dev/internal/cli"
)

var (
	// These variables are set at build time via -ldflags
	version = "dev"
	commit  = "none"    //nolint:unused
	date    = "unknown" //nolint:unused
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	os.Exit(cli.Execute(version))
}
