package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dssctl",
		Short: "dssctl - admin tool for the device assessment decision service",
		Long: `dssctl works with the device assessment decision service.

It solves pairwise comparison matrices, scores devices offline against a
YAML catalog, seeds decision paths into a running service and tails the
events the service publishes.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newAHPCommand())
	cmd.AddCommand(newAssessCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newEventsCommand())

	return cmd
}

func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
