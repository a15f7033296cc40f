package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"grafop/internal/store"
)

func TestDatasourcesEmptyStore(t *testing.T) {
	out, err := Datasources(nil, nil)
	require.NoError(t, err)

	var doc DatasourceDocument
	require.NoError(t, yaml.Unmarshal(out, &doc))

	assert.Equal(t, 1, doc.APIVersion)
	assert.Empty(t, doc.Datasources)
	assert.Empty(t, doc.DeleteDatasources)
}

func TestDatasourcesSingleSource(t *testing.T) {
	sources := []store.DatasourceRecord{{
		RelationID: "0",
		Name:       "Prometheus",
		Type:       "prometheus",
		Address:    "192.168.0.1",
		Port:       "8000",
		IsDefault:  true,
	}}

	out, err := Datasources(sources, nil)
	require.NoError(t, err)

	var doc DatasourceDocument
	require.NoError(t, yaml.Unmarshal(out, &doc))

	require.Len(t, doc.Datasources, 1)
	assert.Equal(t, DatasourceEntry{
		Access:    "proxy",
		IsDefault: true,
		Name:      "Prometheus",
		OrgID:     "1",
		Type:      "prometheus",
		URL:       "http://192.168.0.1:8000",
	}, doc.Datasources[0])
}

func TestDatasourcesDeletionList(t *testing.T) {
	out, err := Datasources(nil, []string{"Graphite", "Prometheus"})
	require.NoError(t, err)

	var doc DatasourceDocument
	require.NoError(t, yaml.Unmarshal(out, &doc))

	assert.Equal(t, []DeletedDatasourceEntry{
		{OrgID: 1, Name: "Graphite"},
		{OrgID: 1, Name: "Prometheus"},
	}, doc.DeleteDatasources)
}

func TestDatasourcesDeterministic(t *testing.T) {
	sources := []store.DatasourceRecord{
		{RelationID: "0", Name: "Prometheus", Type: "prometheus", Address: "10.0.0.1", Port: "9090", IsDefault: true},
		{RelationID: "1", Name: "Loki", Type: "loki", Address: "10.0.0.2", Port: "3100"},
	}
	deletions := []string{"Graphite"}

	first, err := Datasources(sources, deletions)
	require.NoError(t, err)
	second, err := Datasources(sources, deletions)
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged input must render byte-identically")
}
