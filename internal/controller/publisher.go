package controller

import (
	"context"
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"grafop/pkg/logging"
)

// KubernetesPublisher writes this application's side of the ingress
// relation databag as a labeled ConfigMap, mirroring how peers publish
// theirs.
type KubernetesPublisher struct {
	client    kubernetes.Interface
	namespace string
	appName   string
}

// NewKubernetesPublisher publishes into the given namespace on behalf of
// appName.
func NewKubernetesPublisher(client kubernetes.Interface, namespace, appName string) *KubernetesPublisher {
	return &KubernetesPublisher{
		client:    client,
		namespace: namespace,
		appName:   appName,
	}
}

// PublishIngress upserts the ingress databag with the advertised address
// and port.
func (p *KubernetesPublisher) PublishIngress(ctx context.Context, address string, port int) error {
	name := p.appName + "-ingress"
	desired := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: p.namespace,
			Labels: map[string]string{
				LabelRelation:  "true",
				LabelInterface: string(RelationIngress),
				LabelRemoteApp: p.appName,
			},
		},
		Data: map[string]string{
			"service-hostname": address,
			"service-port":     strconv.Itoa(port),
		},
	}

	configMaps := p.client.CoreV1().ConfigMaps(p.namespace)

	existing, err := configMaps.Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		if _, err := configMaps.Create(ctx, desired, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("creating ingress databag: %w", err)
		}
		logging.Debug("Publisher", "created ingress databag %s", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading ingress databag: %w", err)
	}

	existing.Labels = desired.Labels
	existing.Data = desired.Data
	if _, err := configMaps.Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("updating ingress databag: %w", err)
	}
	logging.Debug("Publisher", "updated ingress databag %s", name)
	return nil
}
