package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestPublishIngressCreatesDatabag(t *testing.T) {
	client := fake.NewSimpleClientset()
	pub := NewKubernetesPublisher(client, "default", "grafana")

	require.NoError(t, pub.PublishIngress(context.Background(), "grafana.example.com", 3000))

	cm, err := client.CoreV1().ConfigMaps("default").Get(context.Background(), "grafana-ingress", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "true", cm.Labels[LabelRelation])
	assert.Equal(t, "ingress", cm.Labels[LabelInterface])
	assert.Equal(t, "grafana.example.com", cm.Data["service-hostname"])
	assert.Equal(t, "3000", cm.Data["service-port"])
}

func TestPublishIngressUpdatesExistingDatabag(t *testing.T) {
	client := fake.NewSimpleClientset()
	pub := NewKubernetesPublisher(client, "default", "grafana")

	require.NoError(t, pub.PublishIngress(context.Background(), "old.example.com", 3000))
	require.NoError(t, pub.PublishIngress(context.Background(), "new.example.com", 3001))

	cm, err := client.CoreV1().ConfigMaps("default").Get(context.Background(), "grafana-ingress", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "new.example.com", cm.Data["service-hostname"])
	assert.Equal(t, "3001", cm.Data["service-port"])
}
