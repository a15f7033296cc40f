package controller

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	toolscache "k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/cache"

	"grafop/pkg/logging"
)

// Relation databags live in ConfigMaps carrying these labels. The ConfigMap
// name is the relation id; its Data is the flat string-keyed bag published
// by the remote application.
const (
	// LabelRelation marks a ConfigMap as a relation databag.
	LabelRelation = "grafop.io/relation"

	// LabelInterface names the integration interface (datasource,
	// database, ingress).
	LabelInterface = "grafop.io/interface"

	// LabelRemoteApp names the publishing application.
	LabelRemoteApp = "grafop.io/remote-app"

	// LabelRemoteUnit names the publishing unit, when per-unit bags are
	// used.
	LabelRemoteUnit = "grafop.io/remote-unit"
)

// RelationDetector watches relation ConfigMaps through a controller-runtime
// informer cache and translates add/update/delete into relation-changed and
// relation-broken events.
type RelationDetector struct {
	restConfig *rest.Config
	namespace  string
	scheme     *runtime.Scheme
}

// NewRelationDetector watches the given namespace.
func NewRelationDetector(restConfig *rest.Config, namespace string) (*RelationDetector, error) {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	return &RelationDetector{
		restConfig: restConfig,
		namespace:  namespace,
		scheme:     scheme,
	}, nil
}

// Run starts the informer cache and forwards relation events until the
// context is cancelled.
func (d *RelationDetector) Run(ctx context.Context, events chan<- Event) error {
	selector := labels.SelectorFromSet(labels.Set{LabelRelation: "true"})

	c, err := cache.New(d.restConfig, cache.Options{
		Scheme: d.scheme,
		DefaultNamespaces: map[string]cache.Config{
			d.namespace: {LabelSelector: selector},
		},
	})
	if err != nil {
		return fmt.Errorf("creating relation cache: %w", err)
	}

	informer, err := c.GetInformer(ctx, &corev1.ConfigMap{})
	if err != nil {
		return fmt.Errorf("creating relation informer: %w", err)
	}

	send := func(ev Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	_, err = informer.AddEventHandler(toolsEventHandler{
		onAdd: func(obj interface{}) {
			if ev, ok := relationEvent(obj, EventRelationChanged); ok {
				send(ev)
			}
		},
		onUpdate: func(_, newObj interface{}) {
			if ev, ok := relationEvent(newObj, EventRelationChanged); ok {
				send(ev)
			}
		},
		onDelete: func(obj interface{}) {
			if ev, ok := relationEvent(obj, EventRelationBroken); ok {
				send(ev)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("registering relation handler: %w", err)
	}

	logging.Info("RelationDetector", "watching relation ConfigMaps in namespace %s", d.namespace)
	return c.Start(ctx)
}

// relationEvent translates a relation ConfigMap into a controller event.
func relationEvent(obj interface{}, kind EventKind) (Event, bool) {
	cm, ok := obj.(*corev1.ConfigMap)
	if !ok {
		// Deletes may arrive as tombstones when the watch fell behind.
		tombstone, ok := obj.(toolscache.DeletedFinalStateUnknown)
		if !ok {
			return Event{}, false
		}
		cm, ok = tombstone.Obj.(*corev1.ConfigMap)
		if !ok {
			return Event{}, false
		}
	}

	relationKind := RelationKind(cm.Labels[LabelInterface])
	switch relationKind {
	case RelationDatasource, RelationDatabase, RelationIngress:
	default:
		logging.Warn("RelationDetector", "relation %s has unknown interface %q, ignoring", cm.Name, cm.Labels[LabelInterface])
		return Event{}, false
	}

	data := make(map[string]string, len(cm.Data))
	for k, v := range cm.Data {
		data[k] = v
	}

	return Event{
		Kind:       kind,
		Relation:   relationKind,
		RelationID: cm.Name,
		App:        cm.Labels[LabelRemoteApp],
		Unit:       cm.Labels[LabelRemoteUnit],
		Data:       data,
		Timestamp:  time.Now(),
	}, true
}

// toolsEventHandler adapts plain funcs to the informer handler interface.
type toolsEventHandler struct {
	onAdd    func(obj interface{})
	onUpdate func(oldObj, newObj interface{})
	onDelete func(obj interface{})
}

func (h toolsEventHandler) OnAdd(obj interface{}, isInInitialList bool) {
	if h.onAdd != nil {
		h.onAdd(obj)
	}
}

func (h toolsEventHandler) OnUpdate(oldObj, newObj interface{}) {
	if h.onUpdate != nil {
		h.onUpdate(oldObj, newObj)
	}
}

func (h toolsEventHandler) OnDelete(obj interface{}) {
	if h.onDelete != nil {
		h.onDelete(obj)
	}
}
