package leader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStandaloneIsAlwaysLeader(t *testing.T) {
	e := NewStandalone()
	assert.True(t, e.IsLeader())
}

func TestStandaloneRunBlocksUntilCancel(t *testing.T) {
	e := NewStandalone()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	select {
	case <-done:
		t.Fatal("Run returned before cancellation")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestKubernetesElectorStartsAsFollower(t *testing.T) {
	e := NewKubernetesElector(nil, "default", "grafop-leader", "unit-0")
	assert.False(t, e.IsLeader(), "leadership only set once the lease is acquired")
}
