package config

const (
	// DefaultGrafanaPort is the HTTP port Grafana listens on.
	DefaultGrafanaPort = 3000

	// DefaultProvisioningPath is where Grafana reads provisioning documents.
	DefaultProvisioningPath = "/etc/grafana/provisioning"

	// DefaultConfigFilePath is the location of grafana.ini.
	DefaultConfigFilePath = "/etc/grafana/grafana.ini"

	// DefaultSocketPath is the supervisor's unix socket.
	DefaultSocketPath = "/var/run/pebble/.pebble.socket"

	// DefaultServiceName is the supervisor service name for Grafana.
	DefaultServiceName = "grafana"
)

// GetDefaults returns the built-in configuration. Loaded files override
// individual fields of this baseline.
func GetDefaults() Config {
	return Config{
		Grafana: GrafanaConfig{
			Port:             DefaultGrafanaPort,
			LogLevel:         "info",
			ProvisioningPath: DefaultProvisioningPath,
			ConfigFilePath:   DefaultConfigFilePath,
		},
		Workload: WorkloadConfig{
			SocketPath:  DefaultSocketPath,
			ServiceName: DefaultServiceName,
		},
		Operator: OperatorConfig{
			AppName:    "grafana",
			Mode:       WatchModeStandalone,
			Namespace:  "default",
			StateFile:  "/var/lib/grafop/state.yaml",
			ActionsDir: "/var/lib/grafop/actions",
		},
	}
}
