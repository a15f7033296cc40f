package controller

import (
	"context"
	"fmt"
	"path"

	"grafop/internal/config"
	"grafop/internal/leader"
	"grafop/internal/render"
	"grafop/internal/store"
	"grafop/internal/workload"
	"grafop/pkg/logging"
)

// RelationPublisher writes this unit's side of a relation databag, so peers
// (an ingress in particular) learn the operator's advertised address and
// port. Only the leader publishes.
type RelationPublisher interface {
	PublishIngress(ctx context.Context, address string, port int) error
}

// NoopPublisher is the publisher for standalone mode, where there is no
// shared relation state to write.
type NoopPublisher struct{}

// PublishIngress does nothing.
func (NoopPublisher) PublishIngress(ctx context.Context, address string, port int) error {
	return nil
}

// Controller is the reconciliation core. It receives lifecycle events one at
// a time, folds them into the fragment store, re-renders the target
// artifacts, and drives the workload to match.
//
// All processing happens on a single goroutine (the manager's event loop),
// so the controller holds no locks. Mutations of shared relation state are
// gated on leadership; the workload of this unit is always this unit's to
// manage, leader or not.
type Controller struct {
	cfg        config.Config
	configPath string

	store     *store.Store
	gateway   workload.Gateway
	elector   leader.Elector
	publisher RelationPublisher

	state        WorkloadState
	lastErr      error
	actionResult string
}

// New builds a controller around the given collaborators.
func New(cfg config.Config, configPath string, st *store.Store, gw workload.Gateway, el leader.Elector, pub RelationPublisher) *Controller {
	if pub == nil {
		pub = NoopPublisher{}
	}
	return &Controller{
		cfg:        cfg,
		configPath: configPath,
		store:      st,
		gateway:    gw,
		elector:    el,
		publisher:  pub,
		state:      StateUnstarted,
	}
}

// State returns the controller's view of the workload.
func (c *Controller) State() WorkloadState {
	return c.state
}

// LastError returns the most recent dispatch failure, if any. A successful
// dispatch clears it.
func (c *Controller) LastError() error {
	return c.lastErr
}

// LastActionResult returns the confirmation message of the most recently
// dispatched action.
func (c *Controller) LastActionResult() string {
	return c.actionResult
}

// Dispatch routes one event to its handler and runs it to completion. An
// error means a supervisor or transport call failed mid-step; the store is
// already mutated by then, which is fine: the next event re-renders from
// accumulated state and converges.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	logging.Debug("Controller", "dispatching %s event", ev.Kind)

	var err error
	switch ev.Kind {
	case EventWorkloadReady:
		err = c.handleWorkloadReady(ctx)
	case EventRelationChanged:
		err = c.handleRelationChanged(ctx, ev)
	case EventRelationBroken:
		err = c.handleRelationBroken(ctx, ev)
	case EventConfigChanged:
		err = c.handleConfigChanged(ctx)
	case EventActionInvoked:
		err = c.handleActionInvoked(ctx, ev)
	default:
		logging.Warn("Controller", "unknown event kind %q, ignoring", ev.Kind)
	}

	c.lastErr = err
	return err
}

// datasourcesFilePath is where the rendered provisioning document lands
// inside the workload container.
func (c *Controller) datasourcesFilePath() string {
	return path.Join(c.cfg.Grafana.ProvisioningPath, "datasources", "datasources.yaml")
}

// applyArtifacts renders the provisioning document and grafana.ini from the
// current store contents and pushes both. On success the deletion list has
// been delivered and is cleared, and the state file is rewritten.
func (c *Controller) applyArtifacts(ctx context.Context) error {
	datasources, err := render.Datasources(c.store.Sources(), c.store.PendingDeletions())
	if err != nil {
		return err
	}
	if err := c.gateway.Push(ctx, c.datasourcesFilePath(), datasources, true); err != nil {
		return fmt.Errorf("applying datasource provisioning: %w", err)
	}

	var database *store.DatabaseRecord
	if record, ok := c.store.Database(); ok {
		database = &record
	}
	iniConfig, err := render.DatabaseConfig(database)
	if err != nil {
		return err
	}
	if err := c.gateway.Push(ctx, c.cfg.Grafana.ConfigFilePath, iniConfig, true); err != nil {
		return fmt.Errorf("applying grafana.ini: %w", err)
	}

	c.store.ClearPendingDeletions()
	if err := c.store.Save(c.cfg.Operator.StateFile); err != nil {
		// State persistence failing does not undo the applied artifacts;
		// log and carry on, the next successful apply rewrites it.
		logging.Error("Controller", err, "failed to persist fragment state")
	}
	return nil
}

// submitLaunchLayer renders and submits the Grafana launch layer.
func (c *Controller) submitLaunchLayer(ctx context.Context) error {
	layer, err := render.LaunchLayer(c.cfg.Workload.ServiceName, c.cfg.Grafana).Marshal()
	if err != nil {
		return err
	}
	if err := c.gateway.SubmitLayer(ctx, c.cfg.Workload.ServiceName, layer); err != nil {
		return fmt.Errorf("submitting launch layer: %w", err)
	}
	return nil
}

// restartWorkload cycles the Grafana service: stop when running, then
// start. Relations changing always force this cycle, even when the rendered
// content happens to be unchanged; diffing before restarting would be an
// optimization, the conservative policy is to restart.
func (c *Controller) restartWorkload(ctx context.Context) error {
	name := c.cfg.Workload.ServiceName
	c.state = StateRestarting

	status, err := c.gateway.ServiceStatus(ctx, name)
	if err != nil {
		return fmt.Errorf("querying %s status: %w", name, err)
	}
	if status == workload.StatusActive {
		if err := c.gateway.Stop(ctx, name); err != nil {
			return fmt.Errorf("stopping %s: %w", name, err)
		}
	}
	if err := c.gateway.Start(ctx, name); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}

	c.state = StateRunning
	logging.Info("Controller", "restarted %s", name)
	return nil
}
