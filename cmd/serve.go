package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"grafop/internal/app"
)

var serveDebug bool

// serveCmd starts the operator's reconciliation loop.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the operator reconciliation loop",
	Long: `Starts the operator: waits for the workload supervisor, watches peer
integrations and the configuration file, and keeps the managed Grafana
instance converged with the accumulated state.

In kubernetes mode (operator.mode: kubernetes) relations arrive as labeled
ConfigMaps and leadership is held through a Lease. In standalone mode the
unit is always leader and reacts to local changes only.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := app.NewApplication(app.NewOptions(serveDebug, false, rootConfigPath))
	if err != nil {
		return fmt.Errorf("failed to initialize operator: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
}
