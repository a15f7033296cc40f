package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grafop/internal/config"
)

func testGrafanaConfig() config.GrafanaConfig {
	return config.GrafanaConfig{
		Port:             3000,
		LogLevel:         "info",
		ProvisioningPath: "/etc/grafana/provisioning",
		ConfigFilePath:   "/etc/grafana/grafana.ini",
	}
}

func TestLaunchLayer(t *testing.T) {
	layer := LaunchLayer("grafana", testGrafanaConfig())

	require.Contains(t, layer.Services, "grafana")
	svc := layer.Services["grafana"]

	assert.Equal(t, "replace", svc.Override)
	assert.Equal(t, "grafana", svc.Command)
	assert.Equal(t, "enabled", svc.Startup)
	assert.Equal(t, map[string]string{
		"GF_HTTP_PORT":          "3000",
		"GF_LOG_LEVEL":          "info",
		"GF_PATHS_PROVISIONING": "/etc/grafana/provisioning",
		"GF_PATHS_CONFIG":       "/etc/grafana/grafana.ini",
	}, svc.Environment)
}

func TestLaunchLayerMarshalDeterministic(t *testing.T) {
	first, err := LaunchLayer("grafana", testGrafanaConfig()).Marshal()
	require.NoError(t, err)
	second, err := LaunchLayer("grafana", testGrafanaConfig()).Marshal()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLaunchLayerReflectsConfig(t *testing.T) {
	cfg := testGrafanaConfig()
	cfg.Port = 8080
	cfg.LogLevel = "debug"

	svc := LaunchLayer("grafana", cfg).Services["grafana"]
	assert.Equal(t, "8080", svc.Environment["GF_HTTP_PORT"])
	assert.Equal(t, "debug", svc.Environment["GF_LOG_LEVEL"])
}
