package workload

import "context"

// ServiceStatus is the supervisor's view of a managed service.
type ServiceStatus string

const (
	StatusActive   ServiceStatus = "active"
	StatusInactive ServiceStatus = "inactive"
	StatusUnknown  ServiceStatus = "unknown"
)

// Gateway is the thin interface over the process supervisor that runs the
// Grafana workload. All calls are synchronous; an error means the operation
// did not take effect and the caller is expected to surface it rather than
// retry, since the next reconciliation re-derives everything from
// accumulated state.
type Gateway interface {
	// Ping reports whether the supervisor is reachable.
	Ping(ctx context.Context) error

	// Push writes content to path inside the workload container, creating
	// parent directories when createDirs is set.
	Push(ctx context.Context, path string, content []byte, createDirs bool) error

	// SubmitLayer adds a launch layer under the given label. The layer's own
	// override semantics decide whether it replaces or merges with an
	// earlier submission.
	SubmitLayer(ctx context.Context, label string, layer []byte) error

	// ServiceStatus queries the live status of a service by name.
	ServiceStatus(ctx context.Context, name string) (ServiceStatus, error)

	// Start starts a service by name.
	Start(ctx context.Context, name string) error

	// Stop stops a service by name.
	Stop(ctx context.Context, name string) error

	// AutoStart starts every service whose layer marks it startup-enabled.
	AutoStart(ctx context.Context) error
}
