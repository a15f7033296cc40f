package controller

import (
	"context"
	"time"

	"grafop/internal/workload"
	"grafop/pkg/logging"
)

// WorkloadProbe polls the supervisor until first contact, then emits a
// single workload-ready event. The supervisor socket appearing is the
// operator's signal that the workload container is up.
type WorkloadProbe struct {
	gateway  workload.Gateway
	interval time.Duration
}

// NewWorkloadProbe polls gateway at the given interval. A zero interval
// defaults to 2 seconds.
func NewWorkloadProbe(gateway workload.Gateway, interval time.Duration) *WorkloadProbe {
	if interval == 0 {
		interval = 2 * time.Second
	}
	return &WorkloadProbe{gateway: gateway, interval: interval}
}

// Run polls until the supervisor answers, emits workload-ready, and
// returns.
func (p *WorkloadProbe) Run(ctx context.Context, events chan<- Event) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.gateway.Ping(ctx); err == nil {
			logging.Info("WorkloadProbe", "supervisor reachable, workload ready")
			select {
			case events <- Event{Kind: EventWorkloadReady, Timestamp: time.Now()}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
