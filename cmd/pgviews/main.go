package main

import (
	"os"

	"github.com/go-nacelle/pgviews/cmd/pgviews/internal/commands"
	"github.com/go-nacelle/pgviews/cmd/pgviews/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "pgviews",
	Short:        "Discover Postgres views and their current versioned definitions",
	SilenceUsage: true,
}

func init() {
	logger, err := logging.CreateLogger()
	if err != nil {
		panic(err)
	}

	cfg, err := logging.LoadConfig()
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(commands.ListCommand(logger, cfg))
	rootCmd.AddCommand(commands.VersionsCommand(logger, cfg))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
