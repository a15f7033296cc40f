package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"grafop/internal/workload"
)

func waitForEvent(t *testing.T, events <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestActionDetectorDrainsSpoolAtStartup(t *testing.T) {
	spool := t.TempDir()
	request := ActionRequest{
		ID:     "req-1",
		Name:   "import-dashboard",
		Params: map[string]string{"dashboard": "e30="},
	}
	data, err := yaml.Marshal(request)
	require.NoError(t, err)
	path := filepath.Join(spool, "req-1.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 1)
	detector := NewActionDetector(spool)
	done := make(chan error, 1)
	go func() { done <- detector.Run(ctx, events) }()

	ev := waitForEvent(t, events, 5*time.Second)
	assert.Equal(t, EventActionInvoked, ev.Kind)
	require.NotNil(t, ev.Action)
	assert.Equal(t, "req-1", ev.Action.ID)
	assert.Equal(t, "import-dashboard", ev.Action.Name)

	// Consuming a request removes it from the spool.
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestActionDetectorPicksUpNewRequests(t *testing.T) {
	spool := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 1)
	detector := NewActionDetector(spool)
	go detector.Run(ctx, events)

	// Give the watcher a moment to attach before filing the request.
	time.Sleep(200 * time.Millisecond)

	data, err := yaml.Marshal(ActionRequest{Name: "import-dashboard"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(spool, "late.yaml"), data, 0o644))

	ev := waitForEvent(t, events, 5*time.Second)
	require.NotNil(t, ev.Action)
	assert.Equal(t, "late", ev.Action.ID, "request id falls back to the file name")
}

func TestActionDetectorSkipsNonYAMLFiles(t *testing.T) {
	spool := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(spool, "notes.txt"), []byte("ignore me"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 1)
	go NewActionDetector(spool).Run(ctx, events)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %s for non-yaml file", ev.Kind)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWriteResultFilesUnderResultsDir(t *testing.T) {
	spool := t.TempDir()
	detector := NewActionDetector(spool)

	require.NoError(t, detector.WriteResult(ActionResult{
		ID: "req-9", Status: "completed", Message: "dashboard imported as x.json",
	}))

	data, err := os.ReadFile(filepath.Join(spool, "results", "req-9.yaml"))
	require.NoError(t, err)

	var result ActionResult
	require.NoError(t, yaml.Unmarshal(data, &result))
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, "dashboard imported as x.json", result.Message)
}

func TestConfigDetectorDebouncesRewrites(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("grafana: {}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 4)
	detector := NewConfigDetector(configPath, 100*time.Millisecond)
	go detector.Run(ctx, events)

	time.Sleep(200 * time.Millisecond)

	// A burst of writes inside the debounce window collapses into one event.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(configPath, []byte("grafana:\n  port: 3001\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	ev := waitForEvent(t, events, 5*time.Second)
	assert.Equal(t, EventConfigChanged, ev.Kind)

	select {
	case ev := <-events:
		t.Fatalf("burst produced a second %s event", ev.Kind)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestConfigDetectorIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("grafana: {}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 1)
	go NewConfigDetector(configPath, 50*time.Millisecond).Run(ctx, events)

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("sibling write produced a %s event", ev.Kind)
	case <-time.After(300 * time.Millisecond):
	}
}

type flakyPingGateway struct {
	fakeGateway
	failures int32
}

func (g *flakyPingGateway) Ping(ctx context.Context) error {
	if atomic.AddInt32(&g.failures, -1) >= 0 {
		return errors.New("socket not up yet")
	}
	return nil
}

func TestWorkloadProbeEmitsReadyOnFirstContact(t *testing.T) {
	gw := &flakyPingGateway{failures: 2}
	probe := NewWorkloadProbe(gw, 10*time.Millisecond)

	events := make(chan Event, 1)
	done := make(chan error, 1)
	go func() { done <- probe.Run(context.Background(), events) }()

	ev := waitForEvent(t, events, 5*time.Second)
	assert.Equal(t, EventWorkloadReady, ev.Kind)
	assert.NoError(t, <-done, "probe terminates after first contact")
}

func TestManagerFilesActionResults(t *testing.T) {
	spool := t.TempDir()
	detector := NewActionDetector(spool)
	gw := newFakeGateway()
	gw.status = workload.StatusActive
	c := newTestController(t, gw, &fakeElector{leading: true})

	m := NewManager(c, detector)
	m.process(context.Background(), Event{
		Kind:   EventActionInvoked,
		Action: &ActionRequest{ID: "req-2", Name: "no-such-action"},
	})

	data, err := os.ReadFile(filepath.Join(spool, "results", "req-2.yaml"))
	require.NoError(t, err)

	var result ActionResult
	require.NoError(t, yaml.Unmarshal(data, &result))
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, `unknown action "no-such-action"`, result.Message)
}

func TestManagerFilesFailedActionResults(t *testing.T) {
	spool := t.TempDir()
	detector := NewActionDetector(spool)
	gw := newFakeGateway()
	gw.pushErr = errors.New("supervisor unreachable")
	c := newTestController(t, gw, &fakeElector{leading: true})

	m := NewManager(c, detector)
	m.process(context.Background(), Event{
		Kind: EventActionInvoked,
		Action: &ActionRequest{
			ID:     "req-3",
			Name:   "import-dashboard",
			Params: map[string]string{"dashboard": "e30="},
		},
	})

	data, err := os.ReadFile(filepath.Join(spool, "results", "req-3.yaml"))
	require.NoError(t, err)

	var result ActionResult
	require.NoError(t, yaml.Unmarshal(data, &result))
	assert.Equal(t, "failed", result.Status)
	assert.Contains(t, result.Message, "supervisor unreachable")
}
