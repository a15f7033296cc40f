package controller

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"grafop/pkg/logging"
)

// EventSource feeds lifecycle events into the manager. Each source runs on
// its own goroutine; the manager serializes consumption.
type EventSource interface {
	Run(ctx context.Context, events chan<- Event) error
}

// Manager owns the event loop. Sources deliver into a shared channel and a
// single loop hands events to the controller one at a time, completing each
// reaction before taking the next. This is the containment that lets the
// store and controller go lock-free.
type Manager struct {
	controller *Controller
	sources    []EventSource
	actions    *ActionDetector
}

// NewManager wires the controller to its event sources. actions may be nil
// when no spool is configured; action results are then not filed.
func NewManager(controller *Controller, actions *ActionDetector, sources ...EventSource) *Manager {
	return &Manager{
		controller: controller,
		sources:    sources,
		actions:    actions,
	}
}

// Run starts all sources and processes events until the context is
// cancelled. Dispatch errors do not stop the loop: the failed step is
// surfaced as unit status and the next event converges the workload again.
func (m *Manager) Run(ctx context.Context) error {
	events := make(chan Event, 16)

	group, ctx := errgroup.WithContext(ctx)

	for _, source := range m.sources {
		src := source
		group.Go(func() error {
			err := src.Run(ctx, events)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev := <-events:
				m.process(ctx, ev)
			}
		}
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (m *Manager) process(ctx context.Context, ev Event) {
	err := m.controller.Dispatch(ctx, ev)
	if err != nil {
		logging.Error("Manager", err, "event %s failed, unit unhealthy until next reconciliation", ev.Kind)
	}

	if ev.Kind == EventActionInvoked && ev.Action != nil && m.actions != nil {
		result := ActionResult{ID: ev.Action.ID, Status: "completed", Message: m.controller.LastActionResult()}
		if err != nil {
			result.Status = "failed"
			result.Message = err.Error()
		}
		if writeErr := m.actions.WriteResult(result); writeErr != nil {
			logging.Error("Manager", writeErr, "failed to record result for action %s", ev.Action.ID)
		}
	}
}
