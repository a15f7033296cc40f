package config

// Config is the top-level static configuration for the grafop operator.
//
// It covers the Grafana workload settings (port, log level, file locations),
// the supervisor socket, and the operator's own runtime mode. All values have
// working defaults; a config.yaml only needs to override what differs.
type Config struct {
	Grafana  GrafanaConfig  `json:"grafana,omitempty"`
	Workload WorkloadConfig `json:"workload,omitempty"`
	Operator OperatorConfig `json:"operator,omitempty"`
}

// GrafanaConfig holds the settings propagated into the managed Grafana
// process and its provisioning files.
type GrafanaConfig struct {
	// Port is the HTTP port Grafana listens on (GF_HTTP_PORT).
	Port int `json:"port,omitempty"`

	// LogLevel is Grafana's own log level (GF_LOG_LEVEL).
	LogLevel string `json:"logLevel,omitempty"`

	// ProvisioningPath is the directory Grafana reads provisioning
	// documents from (GF_PATHS_PROVISIONING).
	ProvisioningPath string `json:"provisioningPath,omitempty"`

	// ConfigFilePath is the location of grafana.ini (GF_PATHS_CONFIG).
	ConfigFilePath string `json:"configFilePath,omitempty"`
}

// WorkloadConfig describes how to reach the process supervisor that runs
// Grafana.
type WorkloadConfig struct {
	// SocketPath is the unix socket of the supervisor HTTP API.
	SocketPath string `json:"socketPath,omitempty"`

	// ServiceName is the supervisor's name for the Grafana service.
	ServiceName string `json:"serviceName,omitempty"`
}

// WatchMode selects how the operator observes peer integrations and
// leadership.
type WatchMode string

const (
	// WatchModeKubernetes watches relation ConfigMaps via informers and
	// gates writes behind Lease-based leader election.
	WatchModeKubernetes WatchMode = "kubernetes"

	// WatchModeStandalone runs without a Kubernetes API; the single unit is
	// always leader and relations arrive only through the actions spool.
	WatchModeStandalone WatchMode = "standalone"
)

// OperatorConfig holds settings for the operator process itself.
type OperatorConfig struct {
	// AppName is the deployed application name; it prefixes fallback
	// datasource names and the leader election lease.
	AppName string `json:"appName,omitempty"`

	// Mode selects kubernetes or standalone operation.
	Mode WatchMode `json:"mode,omitempty"`

	// Namespace is the Kubernetes namespace holding relation ConfigMaps and
	// the leader election lease. Ignored in standalone mode.
	Namespace string `json:"namespace,omitempty"`

	// StateFile is where accumulated fragment state is persisted across
	// operator restarts.
	StateFile string `json:"stateFile,omitempty"`

	// ActionsDir is the spool directory watched for operator-invoked action
	// requests.
	ActionsDir string `json:"actionsDir,omitempty"`

	// IngressAddress is the externally reachable address advertised to the
	// ingress relation. Empty means advertise nothing.
	IngressAddress string `json:"ingressAddress,omitempty"`
}
