package main

import (
	"github.com/spf13/cobra"
)

const version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:   "flowform",
	Short: "Single-user fitness session log",
	Long: `FlowForm records training sessions and derives load analytics.

Sessions carry a title, category, intensity (1-10), and duration. Completing
a session stamps it and appends a metric row. The stats endpoint reports
totals, the trailing-week volume, and the current daily streak.

QUICK START:

  $ flowform serve              # start the API and dashboard
  $ flowform port --print-port  # resolve the boot port without serving

Storage defaults to a local SQLite file; set DATABASE_URL to use Postgres.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
