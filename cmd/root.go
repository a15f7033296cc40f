package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// defaultConfigPath is where the operator looks for its configuration when
// --config is not given.
const defaultConfigPath = "/etc/grafop/config.yaml"

var rootConfigPath string

// rootCmd is the base command for the grafop operator.
var rootCmd = &cobra.Command{
	Use:   "grafop",
	Short: "Operator for a Grafana workload",
	Long: `grafop manages a Grafana instance: it accumulates datasource and
database fragments from peer integrations, renders Grafana's provisioning
and configuration files, and drives the workload through its process
supervisor.`,
	// Errors are reported once by Execute; the usage text would only bury
	// them.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "grafop version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", defaultConfigPath, "path to the operator configuration file")
}
