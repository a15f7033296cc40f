package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	assert.Empty(t, s.Sources())
	assert.Empty(t, s.PendingDeletions())
	_, ok := s.Database()
	assert.False(t, ok)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s := New()
	require.True(t, s.UpsertSource("0", "prometheus", completeSource("Prometheus")))
	require.True(t, s.UpsertSource("1", "loki", map[string]string{
		"address": "10.0.0.3", "port": "3100", "type": "loki", "name": "Loki",
	}))
	require.True(t, s.RemoveSource("1"))
	require.True(t, s.SetDatabase(map[string]string{
		"host": "localhost", "name": "grafana", "user": "u", "password": "p",
	}))

	require.NoError(t, s.Save(path))

	restored, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.Sources(), restored.Sources())
	assert.Equal(t, s.PendingDeletions(), restored.PendingDeletions())

	db, ok := restored.Database()
	require.True(t, ok)
	assert.Equal(t, "localhost", db.Host)

	// Restored name bookkeeping still guards uniqueness.
	assert.True(t, restored.names.Has("Prometheus"))
	assert.False(t, restored.names.Has("Loki"))
}

func TestLoadCorruptStateFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: {broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	s := New()
	require.True(t, s.UpsertSource("0", "prometheus", completeSource("Prometheus")))
	require.NoError(t, s.Save(path))

	// No temp file remains after a successful save.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
