package controller

import "time"

// EventKind tags the lifecycle event variants the controller reacts to.
type EventKind string

const (
	// EventWorkloadReady fires on first successful contact with the
	// process supervisor.
	EventWorkloadReady EventKind = "workload-ready"

	// EventRelationChanged fires when a peer relation delivers new or
	// updated data.
	EventRelationChanged EventKind = "relation-changed"

	// EventRelationBroken fires when a peer relation is torn down.
	EventRelationBroken EventKind = "relation-broken"

	// EventConfigChanged fires when the operator's static configuration
	// file changes.
	EventConfigChanged EventKind = "config-changed"

	// EventActionInvoked fires when an operator-invoked action request
	// arrives.
	EventActionInvoked EventKind = "action-invoked"
)

// RelationKind identifies which integration interface a relation speaks.
type RelationKind string

const (
	RelationDatasource RelationKind = "datasource"
	RelationDatabase   RelationKind = "database"
	RelationIngress    RelationKind = "ingress"
)

// ActionRequest is an operator-invoked action, read from the actions spool.
type ActionRequest struct {
	// ID identifies the request; results are filed under it.
	ID string `json:"id"`

	// Name is the action name, e.g. "import-dashboard".
	Name string `json:"name"`

	// Params carries the action's string parameters.
	Params map[string]string `json:"params,omitempty"`
}

// Event is the tagged union delivered to the controller. Exactly one
// dispatch handler consumes each kind; fields beyond Kind are populated per
// variant.
type Event struct {
	Kind EventKind

	// Relation identity, for relation-changed and relation-broken.
	Relation   RelationKind
	RelationID string
	App        string
	Unit       string

	// Data is the flat string-keyed relation databag of the remote unit.
	Data map[string]string

	// Action, for action-invoked.
	Action *ActionRequest

	Timestamp time.Time
}

// WorkloadState is the controller's view of the managed Grafana process.
type WorkloadState string

const (
	StateUnstarted  WorkloadState = "unstarted"
	StateStarting   WorkloadState = "starting"
	StateRunning    WorkloadState = "running"
	StateRestarting WorkloadState = "restarting"
)
