package leader

import (
	"context"
	"sync/atomic"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"

	"grafop/pkg/logging"
)

// KubernetesElector gates leadership on a coordination.k8s.io Lease, so at
// most one replica of the operator mutates relation state at a time.
type KubernetesElector struct {
	client    kubernetes.Interface
	namespace string
	leaseName string
	identity  string

	leading atomic.Bool
}

// NewKubernetesElector returns a Lease-based elector. identity must be
// unique per replica; the pod name is the usual choice.
func NewKubernetesElector(client kubernetes.Interface, namespace, leaseName, identity string) *KubernetesElector {
	return &KubernetesElector{
		client:    client,
		namespace: namespace,
		leaseName: leaseName,
		identity:  identity,
	}
}

// Run joins the election and keeps re-joining after lost leadership until
// the context is cancelled.
func (e *KubernetesElector) Run(ctx context.Context) error {
	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{
			Name:      e.leaseName,
			Namespace: e.namespace,
		},
		Client: e.client.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: e.identity,
		},
	}

	for {
		elector, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
			Lock:            lock,
			LeaseDuration:   15 * time.Second,
			RenewDeadline:   10 * time.Second,
			RetryPeriod:     2 * time.Second,
			ReleaseOnCancel: true,
			Callbacks: leaderelection.LeaderCallbacks{
				OnStartedLeading: func(ctx context.Context) {
					e.leading.Store(true)
					logging.Info("Leader", "acquired leadership as %s", e.identity)
				},
				OnStoppedLeading: func() {
					e.leading.Store(false)
					logging.Info("Leader", "lost leadership as %s", e.identity)
				},
			},
		})
		if err != nil {
			return err
		}

		elector.Run(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Run returned because leadership was lost; rejoin the
			// election after a short pause.
			time.Sleep(2 * time.Second)
		}
	}
}

// IsLeader reports whether this replica currently holds the lease.
func (e *KubernetesElector) IsLeader() bool {
	return e.leading.Load()
}
