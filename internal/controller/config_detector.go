package controller

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"grafop/pkg/logging"
)

// ConfigDetector watches the static configuration file and emits a
// config-changed event when it is rewritten. Successive writes within the
// debounce interval collapse into one event, since editors and config
// mounts often touch a file several times per update.
type ConfigDetector struct {
	configPath       string
	debounceInterval time.Duration
}

// NewConfigDetector watches configPath. A zero debounce defaults to 500ms.
func NewConfigDetector(configPath string, debounceInterval time.Duration) *ConfigDetector {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &ConfigDetector{
		configPath:       configPath,
		debounceInterval: debounceInterval,
	}
}

// Run watches until the context is cancelled, sending events to the
// channel. The parent directory is watched rather than the file itself so
// atomic rename-style rewrites are seen.
func (d *ConfigDetector) Run(ctx context.Context, events chan<- Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(d.configPath)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logging.Info("ConfigDetector", "watching %s for configuration changes", d.configPath)

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(d.configPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(d.debounceInterval)
			} else {
				debounce.Reset(d.debounceInterval)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			logging.Debug("ConfigDetector", "configuration file changed")
			select {
			case events <- Event{Kind: EventConfigChanged, Timestamp: time.Now()}:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("ConfigDetector", err, "filesystem watcher error")
		}
	}
}
