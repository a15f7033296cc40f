package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"grafop/pkg/logging"
)

// snapshot is the serialized form of the store. Field names are stable; the
// state file written by one operator version must load in the next.
type snapshot struct {
	Sources          []DatasourceRecord `json:"sources,omitempty"`
	PendingDeletions []string           `json:"pendingDeletions,omitempty"`
	Database         *DatabaseRecord    `json:"database,omitempty"`
}

// Load reads persisted fragment state from path. A missing file yields an
// empty store, so first start and restart share one code path.
func Load(path string) (*Store, error) {
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Store", "no state file at %s, starting empty", path)
			return s, nil
		}
		return nil, fmt.Errorf("reading state from %s: %w", path, err)
	}

	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing state from %s: %w", path, err)
	}

	for _, record := range snap.Sources {
		s.sources[record.RelationID] = record
		s.names.allocated[record.Name] = true
	}
	for _, name := range snap.PendingDeletions {
		s.pendingDeletions[name] = true
	}
	s.database = snap.Database

	logging.Info("Store", "restored %d datasources from %s", len(snap.Sources), path)
	return s, nil
}

// Save writes the current fragment state to path, creating parent
// directories as needed. The write goes through a temp file and rename so a
// crash mid-write cannot corrupt the previous state.
func (s *Store) Save(path string) error {
	snap := snapshot{
		Sources:          s.Sources(),
		PendingDeletions: s.PendingDeletions(),
	}
	if s.database != nil {
		db := *s.database
		snap.Database = &db
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serializing state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state to %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing state file %s: %w", path, err)
	}
	return nil
}
