package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"sigs.k8s.io/yaml"

	"grafop/pkg/logging"
)

// ActionDetector watches the actions spool directory. Each YAML file
// dropped there is read as an ActionRequest, consumed (removed from the
// spool) and emitted as an action-invoked event. Results are written under
// results/<id>.yaml by WriteResult once the controller has processed the
// action.
type ActionDetector struct {
	spoolDir string
}

// NewActionDetector watches spoolDir, creating it if needed.
func NewActionDetector(spoolDir string) *ActionDetector {
	return &ActionDetector{spoolDir: spoolDir}
}

// Run watches the spool until the context is cancelled. Requests already
// present at startup are drained first, so actions filed while the operator
// was down are not lost.
func (d *ActionDetector) Run(ctx context.Context, events chan<- Event) error {
	if err := os.MkdirAll(d.spoolDir, 0o755); err != nil {
		return fmt.Errorf("creating actions spool %s: %w", d.spoolDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(d.spoolDir); err != nil {
		return err
	}
	logging.Info("ActionDetector", "watching %s for action requests", d.spoolDir)

	if err := d.drainExisting(ctx, events); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := d.consumeRequest(ctx, event.Name, events); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("ActionDetector", err, "filesystem watcher error")
		}
	}
}

func (d *ActionDetector) drainExisting(ctx context.Context, events chan<- Event) error {
	entries, err := os.ReadDir(d.spoolDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := d.consumeRequest(ctx, filepath.Join(d.spoolDir, entry.Name()), events); err != nil {
			return err
		}
	}
	return nil
}

// consumeRequest reads, removes and emits one spooled request. Malformed
// files are removed and logged rather than retried forever.
func (d *ActionDetector) consumeRequest(ctx context.Context, path string, events chan<- Event) error {
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		logging.Error("ActionDetector", err, "failed to read action request %s", path)
		return nil
	}

	var request ActionRequest
	if err := yaml.Unmarshal(data, &request); err != nil {
		logging.Warn("ActionDetector", "malformed action request %s, discarding: %v", path, err)
		os.Remove(path)
		return nil
	}
	if request.ID == "" {
		request.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn("ActionDetector", "failed to consume action request %s: %v", path, err)
	}

	select {
	case events <- Event{
		Kind:      EventActionInvoked,
		Action:    &request,
		Timestamp: time.Now(),
	}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// ActionResult is the outcome record written back to the spool.
type ActionResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// WriteResult files the outcome of a processed action under
// <spool>/results/<id>.yaml.
func (d *ActionDetector) WriteResult(result ActionResult) error {
	resultsDir := filepath.Join(d.spoolDir, "results")
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(resultsDir, result.ID+".yaml"), data, 0o644)
}
