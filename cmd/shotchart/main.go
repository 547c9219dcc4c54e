package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/logging"
)

const (
	appName    = "shotchart"
	appVersion = "1.0.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           appName,
		Short:         "NBA shot chart renderer",
		Long:          "Render a player's season shot chart to PNG and import shot logs from the stats provider.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(logLevel, os.Stderr)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, none)")

	root.AddCommand(newRenderCmd(), newSyncCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", appName, appVersion)
		},
	})
	return root
}
