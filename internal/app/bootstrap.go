package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"grafop/internal/config"
	"grafop/internal/controller"
	"grafop/internal/leader"
	"grafop/internal/store"
	"grafop/internal/workload"
	"grafop/pkg/logging"
)

// Application bootstraps and runs the grafop operator.
//
// Bootstrap wires the pieces together in dependency order: configuration,
// persisted fragment state, the supervisor gateway, leadership, and the
// event detectors feeding the controller. Run then hands control to the
// manager's event loop until the context is cancelled.
type Application struct {
	options *Options
	manager *controller.Manager
}

// NewApplication performs the bootstrap sequence and returns a ready-to-run
// application. It fails when configuration is invalid, persisted state is
// unreadable, or kubernetes mode is requested outside a cluster.
func NewApplication(opts *Options) (*Application, error) {
	logLevel := logging.LevelInfo
	if opts.Debug {
		logLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stderr
	if opts.Silent {
		logOutput = io.Discard
	}
	logging.Init(logLevel, logOutput)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to load configuration from %s", opts.ConfigPath)
		return nil, fmt.Errorf("loading configuration from %s: %w", opts.ConfigPath, err)
	}
	opts.Config = &cfg

	st, err := store.Load(cfg.Operator.StateFile)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to load persisted state from %s", cfg.Operator.StateFile)
		return nil, fmt.Errorf("loading persisted state from %s: %w", cfg.Operator.StateFile, err)
	}

	gateway := workload.NewPebbleClient(cfg.Workload.SocketPath)

	sources := []controller.EventSource{
		controller.NewWorkloadProbe(gateway, 0),
		controller.NewConfigDetector(opts.ConfigPath, 0),
	}

	actions := controller.NewActionDetector(cfg.Operator.ActionsDir)
	sources = append(sources, actions)

	var elector leader.Elector
	var publisher controller.RelationPublisher

	switch cfg.Operator.Mode {
	case config.WatchModeKubernetes:
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("kubernetes mode requires in-cluster credentials: %w", err)
		}
		clientset, err := kubernetes.NewForConfig(restConfig)
		if err != nil {
			return nil, fmt.Errorf("creating kubernetes client: %w", err)
		}

		identity, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("determining unit identity: %w", err)
		}
		elector = leader.NewKubernetesElector(clientset, cfg.Operator.Namespace, cfg.Operator.AppName+"-leader", identity)
		publisher = controller.NewKubernetesPublisher(clientset, cfg.Operator.Namespace, cfg.Operator.AppName)

		relations, err := controller.NewRelationDetector(restConfig, cfg.Operator.Namespace)
		if err != nil {
			return nil, fmt.Errorf("creating relation detector: %w", err)
		}
		sources = append(sources, relations)
		logging.Info("Bootstrap", "kubernetes mode, unit %s in namespace %s", identity, cfg.Operator.Namespace)

	case config.WatchModeStandalone:
		elector = leader.NewStandalone()
		publisher = controller.NoopPublisher{}
		logging.Info("Bootstrap", "standalone mode, this unit is always leader")

	default:
		return nil, fmt.Errorf("unknown operator mode %q", cfg.Operator.Mode)
	}

	sources = append(sources, electorSource{elector})

	ctrl := controller.New(cfg, opts.ConfigPath, st, gateway, elector, publisher)
	manager := controller.NewManager(ctrl, actions, sources...)

	return &Application{
		options: opts,
		manager: manager,
	}, nil
}

// Run executes the operator until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	return a.manager.Run(ctx)
}

// electorSource runs the leader election loop alongside the detectors. It
// emits no events; leadership is polled by the controller per dispatch.
type electorSource struct {
	elector leader.Elector
}

func (s electorSource) Run(ctx context.Context, _ chan<- controller.Event) error {
	return s.elector.Run(ctx)
}
