// Command dashboard serves the news and search-interest dashboard.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeafMist/trend-dashboard/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "News headlines and search-interest dashboard",
		Long: `dashboard serves three pages: headlines with a search-interest chart,
a per-country interest map, and today's application log.

Configuration comes from environment variables, optionally layered over
a YAML file (DASHBOARD_CONFIG, ./dashboard.yaml or
$XDG_CONFIG_HOME/trend-dashboard/config.yaml).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.New("dashboard").Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}
