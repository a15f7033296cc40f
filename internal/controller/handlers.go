package controller

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"

	"github.com/google/uuid"

	"grafop/internal/config"
	"grafop/internal/workload"
	"grafop/pkg/logging"
)

// handleWorkloadReady brings the workload up on first supervisor contact.
// The live service status decides whether anything needs doing; local memory
// of a previous start is not trusted, since the controller process may have
// restarted while Grafana kept running.
func (c *Controller) handleWorkloadReady(ctx context.Context) error {
	name := c.cfg.Workload.ServiceName

	status, err := c.gateway.ServiceStatus(ctx, name)
	if err != nil {
		return fmt.Errorf("querying %s status: %w", name, err)
	}
	if status == workload.StatusActive {
		logging.Info("Controller", "%s already running, nothing to do", name)
		c.state = StateRunning
		return nil
	}

	c.state = StateStarting
	if err := c.applyArtifacts(ctx); err != nil {
		return err
	}
	if err := c.submitLaunchLayer(ctx); err != nil {
		return err
	}
	if err := c.gateway.AutoStart(ctx); err != nil {
		return fmt.Errorf("autostarting services: %w", err)
	}

	c.state = StateRunning
	logging.Info("Controller", "started %s", name)
	return nil
}

// handleRelationChanged folds new relation data into the store and applies
// the result. Store mutation is leader-only; non-leaders must not write
// shared relation-derived state that the leader also derives.
func (c *Controller) handleRelationChanged(ctx context.Context, ev Event) error {
	if !c.elector.IsLeader() {
		logging.Debug("Controller", "not leader, observing %s change on relation %s only", ev.Relation, ev.RelationID)
		return nil
	}

	var changed bool
	switch ev.Relation {
	case RelationDatasource:
		changed = c.store.UpsertSource(ev.RelationID, ev.App, ev.Data)
	case RelationDatabase:
		changed = c.store.SetDatabase(ev.Data)
	case RelationIngress:
		// The ingress relation only consumes our address; nothing to
		// accumulate on their side of the bag.
		logging.Debug("Controller", "ingress relation %s changed, no fragments to record", ev.RelationID)
		return nil
	default:
		logging.Warn("Controller", "change on unknown relation kind %q, ignoring", ev.Relation)
		return nil
	}

	if !changed {
		// Rejected fragment; prior state stands and the running workload
		// still matches it.
		return nil
	}

	if err := c.applyArtifacts(ctx); err != nil {
		return err
	}
	return c.restartWorkload(ctx)
}

// handleRelationBroken removes a departed peer's fragment and applies the
// result, scheduling the datasource's name for deletion in the rendered
// document.
func (c *Controller) handleRelationBroken(ctx context.Context, ev Event) error {
	if !c.elector.IsLeader() {
		logging.Debug("Controller", "not leader, observing %s departure on relation %s only", ev.Relation, ev.RelationID)
		return nil
	}

	var changed bool
	switch ev.Relation {
	case RelationDatasource:
		changed = c.store.RemoveSource(ev.RelationID)
	case RelationDatabase:
		changed = c.store.ClearDatabase()
	case RelationIngress:
		logging.Debug("Controller", "ingress relation %s departed", ev.RelationID)
		return nil
	default:
		logging.Warn("Controller", "departure on unknown relation kind %q, ignoring", ev.Relation)
		return nil
	}

	if !changed {
		return nil
	}

	if err := c.applyArtifacts(ctx); err != nil {
		return err
	}
	return c.restartWorkload(ctx)
}

// handleConfigChanged reloads the static configuration, re-propagates the
// advertised address to the ingress relation, and re-applies everything the
// config feeds into: provisioning artifacts and the launch layer.
func (c *Controller) handleConfigChanged(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		logging.Error("Controller", err, "ignoring invalid configuration update")
		return nil
	}
	c.cfg = cfg

	if c.elector.IsLeader() && c.cfg.Operator.IngressAddress != "" {
		if err := c.publisher.PublishIngress(ctx, c.cfg.Operator.IngressAddress, c.cfg.Grafana.Port); err != nil {
			return fmt.Errorf("publishing ingress address: %w", err)
		}
		logging.Info("Controller", "advertised %s:%d to ingress", c.cfg.Operator.IngressAddress, c.cfg.Grafana.Port)
	}

	if err := c.applyArtifacts(ctx); err != nil {
		return err
	}
	if err := c.submitLaunchLayer(ctx); err != nil {
		return err
	}
	return c.restartWorkload(ctx)
}

// handleActionInvoked executes an operator action. Actions run on any unit,
// leader or not, because they touch only this unit's workload.
func (c *Controller) handleActionInvoked(ctx context.Context, ev Event) error {
	if ev.Action == nil {
		logging.Warn("Controller", "action event without request payload, ignoring")
		return nil
	}

	switch ev.Action.Name {
	case "import-dashboard":
		return c.importDashboard(ctx, ev.Action)
	default:
		logging.Warn("Controller", "unknown action %q, ignoring", ev.Action.Name)
		c.actionResult = fmt.Sprintf("unknown action %q", ev.Action.Name)
		return nil
	}
}

// importDashboard decodes the base64 dashboard payload and installs it under
// the provisioning path with a generated name, then restarts Grafana so the
// dashboard is picked up. It tolerates running before the provisioning tree
// exists; the push creates parent directories.
func (c *Controller) importDashboard(ctx context.Context, action *ActionRequest) error {
	payload, ok := action.Params["dashboard"]
	if !ok {
		logging.Warn("Controller", "import-dashboard without dashboard parameter, ignoring")
		c.actionResult = "missing dashboard parameter"
		return nil
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logging.Warn("Controller", "import-dashboard payload is not valid base64, ignoring: %v", err)
		c.actionResult = "dashboard payload is not valid base64"
		return nil
	}

	filename := uuid.New().String() + ".json"
	target := path.Join(c.cfg.Grafana.ProvisioningPath, "dashboards", filename)

	if err := c.gateway.Push(ctx, target, content, true); err != nil {
		return fmt.Errorf("installing dashboard: %w", err)
	}
	if err := c.restartWorkload(ctx); err != nil {
		return err
	}

	c.actionResult = fmt.Sprintf("dashboard imported as %s", filename)
	logging.Info("Controller", "imported dashboard as %s", filename)
	return nil
}
