// Package main provides the tubelens CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tubelens/internal/core/version"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the tubelens CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tubelens",
		Short:   "Ingest and analyze channel, video, and comment metadata",
		Long:    "Tubelens loads raw metadata dumps into the store and runs the analytics engine over them.",
		Version: version.Info().Version,
	}

	rootCmd.SetVersionTemplate("tubelens version {{.Version}}\n")

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newAnalyzeCmd())

	return rootCmd
}
