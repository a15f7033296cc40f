package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"grafop/internal/config"
	"grafop/internal/controller"
	"grafop/pkg/logging"
)

// importDashboardCmd files an import-dashboard action request into the
// operator's actions spool. The running operator picks it up, installs the
// dashboard into Grafana's provisioning tree, and writes the outcome under
// <spool>/results/<id>.yaml.
var importDashboardCmd = &cobra.Command{
	Use:   "import-dashboard <dashboard.json>",
	Short: "Import a dashboard into the managed Grafana instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportDashboard,
}

func runImportDashboard(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelWarn, cmd.ErrOrStderr())

	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read dashboard %s: %w", args[0], err)
	}

	request := controller.ActionRequest{
		ID:   uuid.New().String(),
		Name: "import-dashboard",
		Params: map[string]string{
			"dashboard": base64.StdEncoding.EncodeToString(content),
		},
	}
	data, err := yaml.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to serialize action request: %w", err)
	}

	spool := cfg.Operator.ActionsDir
	if err := os.MkdirAll(spool, 0o755); err != nil {
		return fmt.Errorf("failed to create actions spool %s: %w", spool, err)
	}

	// Write-then-rename so the operator never reads a half-written request.
	target := filepath.Join(spool, request.ID+".yaml")
	tmp := filepath.Join(spool, "."+request.ID+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write action request: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to file action request: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "filed action %s\nresult will appear at %s\n",
		request.ID, filepath.Join(spool, "results", request.ID+".yaml"))
	return nil
}

func init() {
	rootCmd.AddCommand(importDashboardCmd)
}
