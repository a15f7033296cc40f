package leader

import "context"

// Elector reports whether this operator unit currently holds leadership.
// Only the leader mutates shared, relation-visible state; non-leaders still
// observe events and keep their local view current.
type Elector interface {
	// Run participates in the election until the context is cancelled.
	Run(ctx context.Context) error

	// IsLeader reports the current leadership state. It is safe to call
	// from any goroutine.
	IsLeader() bool
}

// Standalone is the elector for single-unit deployments: it is always the
// leader and holds no external lock.
type Standalone struct{}

// NewStandalone returns an always-leader elector.
func NewStandalone() *Standalone {
	return &Standalone{}
}

// Run blocks until the context is cancelled.
func (s *Standalone) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// IsLeader always reports true.
func (s *Standalone) IsLeader() bool {
	return true
}
