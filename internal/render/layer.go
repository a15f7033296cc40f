package render

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"grafop/internal/config"
)

// ServiceSpec describes one service in a supervisor layer.
type ServiceSpec struct {
	Override    string            `yaml:"override"`
	Summary     string            `yaml:"summary,omitempty"`
	Command     string            `yaml:"command"`
	Startup     string            `yaml:"startup"`
	Environment map[string]string `yaml:"environment,omitempty"`
}

// Layer is the launch specification submitted to the process supervisor.
type Layer struct {
	Summary     string                 `yaml:"summary,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Services    map[string]ServiceSpec `yaml:"services"`
}

// LaunchLayer builds the Grafana service layer from static configuration.
// The override mode replaces any previously submitted definition and startup
// is enabled, so resubmitting the same layer is idempotent.
func LaunchLayer(serviceName string, grafana config.GrafanaConfig) Layer {
	return Layer{
		Summary:     "grafana layer",
		Description: "layer for the grafana workload",
		Services: map[string]ServiceSpec{
			serviceName: {
				Override: "replace",
				Summary:  "grafana service",
				Command:  "grafana",
				Startup:  "enabled",
				Environment: map[string]string{
					"GF_HTTP_PORT":          strconv.Itoa(grafana.Port),
					"GF_LOG_LEVEL":          grafana.LogLevel,
					"GF_PATHS_PROVISIONING": grafana.ProvisioningPath,
					"GF_PATHS_CONFIG":       grafana.ConfigFilePath,
				},
			},
		},
	}
}

// Marshal serializes the layer for submission. Map keys serialize sorted, so
// equal layers produce byte-identical output.
func (l Layer) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("serializing layer: %w", err)
	}
	return out, nil
}
