package render

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"grafop/internal/store"
)

// provisioningAPIVersion is the schema version of Grafana's datasource
// provisioning format.
const provisioningAPIVersion = 1

// DatasourceEntry is one active datasource in the provisioning document.
// Grafana expects orgId as a string here but as an integer in the deletion
// list; both quirks are preserved.
type DatasourceEntry struct {
	Access    string `yaml:"access"`
	IsDefault bool   `yaml:"isDefault"`
	Name      string `yaml:"name"`
	OrgID     string `yaml:"orgId"`
	Type      string `yaml:"type"`
	URL       string `yaml:"url"`
}

// DeletedDatasourceEntry marks a datasource Grafana should remove.
type DeletedDatasourceEntry struct {
	OrgID int    `yaml:"orgId"`
	Name  string `yaml:"name"`
}

// DatasourceDocument is the complete provisioning document.
type DatasourceDocument struct {
	APIVersion        int                      `yaml:"apiVersion"`
	Datasources       []DatasourceEntry        `yaml:"datasources"`
	DeleteDatasources []DeletedDatasourceEntry `yaml:"deleteDatasources"`
}

// Datasources derives the provisioning document from the accumulated
// sources and the pending deletion list. It is a pure function: rendering
// twice with unchanged input yields byte-identical output.
func Datasources(sources []store.DatasourceRecord, pendingDeletions []string) ([]byte, error) {
	doc := DatasourceDocument{
		APIVersion:        provisioningAPIVersion,
		Datasources:       make([]DatasourceEntry, 0, len(sources)),
		DeleteDatasources: make([]DeletedDatasourceEntry, 0, len(pendingDeletions)),
	}

	for _, s := range sources {
		doc.Datasources = append(doc.Datasources, DatasourceEntry{
			Access:    "proxy",
			IsDefault: s.IsDefault,
			Name:      s.Name,
			OrgID:     "1",
			Type:      s.Type,
			URL:       fmt.Sprintf("http://%s:%s", s.Address, s.Port),
		})
	}

	for _, name := range pendingDeletions {
		doc.DeleteDatasources = append(doc.DeleteDatasources, DeletedDatasourceEntry{
			OrgID: 1,
			Name:  name,
		})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing datasource document: %w", err)
	}
	return out, nil
}
