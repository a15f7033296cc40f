package store

import (
	"sort"

	"grafop/pkg/logging"
)

// DatasourceRecord is one accumulated datasource fragment, contributed by a
// single peer relation.
type DatasourceRecord struct {
	RelationID string `json:"relationId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Address    string `json:"address"`
	Port       string `json:"port"`
	IsDefault  bool   `json:"isDefault"`
	OwnerUnit  string `json:"ownerUnit,omitempty"`
}

// DatabaseRecord is the single accepted database backend.
type DatabaseRecord struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Name     string `json:"name"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// SupportedDatabaseTypes lists the backend types Grafana accepts here.
var SupportedDatabaseTypes = map[string]bool{
	"mysql":    true,
	"postgres": true,
}

// Store accumulates configuration fragments delivered by peer relations.
//
// It is mutated only from the controller's single event-processing goroutine,
// so it carries no internal locking. The bookkeeping invariant is that the
// allocated-name set always equals the set of Name fields across sources, and
// pendingDeletions holds names removed since the last applied render.
type Store struct {
	sources          map[string]DatasourceRecord
	names            nameRegistry
	pendingDeletions map[string]bool
	database         *DatabaseRecord
}

// New returns an empty store.
func New() *Store {
	return &Store{
		sources:          make(map[string]DatasourceRecord),
		names:            newNameRegistry(),
		pendingDeletions: make(map[string]bool),
	}
}

// UpsertSource validates and records a datasource fragment for the given
// relation. The databag must carry address, port and type; a fragment missing
// any of them is rejected and the prior record for that relation, if any,
// stays untouched. The returned bool reports whether the store changed.
//
// The first record ever inserted into an empty store becomes the default
// datasource. Removing it later does not promote a replacement.
func (s *Store) UpsertSource(relationID, peerApp string, data map[string]string) bool {
	address := data["address"]
	port := data["port"]
	sourceType := data["type"]
	if address == "" || port == "" || sourceType == "" {
		logging.Warn("Store", "incomplete datasource fragment from relation %s, ignoring (address=%q port=%q type=%q)",
			relationID, address, port, sourceType)
		return false
	}

	prior, existed := s.sources[relationID]
	if existed {
		// The record's name slot is re-derived below; free it so a
		// re-request of the same name is not seen as a duplicate.
		s.names.Release(prior.Name)
	}

	name, usedFallback := s.names.Allocate(data["name"], fallbackName(peerApp, relationID))
	if usedFallback {
		logging.Warn("Store", "datasource name %q from relation %s unavailable, using %q",
			data["name"], relationID, name)
	}

	record := DatasourceRecord{
		RelationID: relationID,
		Name:       name,
		Type:       sourceType,
		Address:    address,
		Port:       port,
		OwnerUnit:  data["owner"],
	}
	if existed {
		record.IsDefault = prior.IsDefault
	} else {
		record.IsDefault = len(s.sources) == 0
	}

	s.sources[relationID] = record
	logging.Info("Store", "recorded datasource %q (type=%s) for relation %s", name, sourceType, relationID)
	return true
}

// RemoveSource drops the fragment for the given relation and schedules its
// name for deletion from the rendered provisioning document. Removing an
// unknown relation is an idempotent no-op.
func (s *Store) RemoveSource(relationID string) bool {
	record, ok := s.sources[relationID]
	if !ok {
		logging.Warn("Store", "remove for unknown relation %s, ignoring", relationID)
		return false
	}

	delete(s.sources, relationID)
	s.names.Release(record.Name)
	s.pendingDeletions[record.Name] = true
	logging.Info("Store", "removed datasource %q for relation %s", record.Name, relationID)
	return true
}

// SetDatabase validates and records the database backend. Each update must
// itself carry the complete field set {host, name, user, password}; partial
// updates are rejected wholesale rather than merged with earlier state. An
// accepted update replaces any previous backend.
func (s *Store) SetDatabase(data map[string]string) bool {
	host := data["host"]
	name := data["name"]
	user := data["user"]
	password := data["password"]
	if host == "" || name == "" || user == "" || password == "" {
		logging.Warn("Store", "incomplete database fragment, ignoring (host=%q name=%q user set=%t password set=%t)",
			host, name, user != "", password != "")
		return false
	}

	dbType := data["type"]
	if dbType == "" {
		dbType = "mysql"
	}
	if !SupportedDatabaseTypes[dbType] {
		logging.Warn("Store", "unsupported database type %q, rejecting update", dbType)
		return false
	}

	s.database = &DatabaseRecord{
		Type:     dbType,
		Host:     host,
		Name:     name,
		User:     user,
		Password: password,
	}
	logging.Info("Store", "recorded %s database backend at %s", dbType, host)
	return true
}

// ClearDatabase forgets the database backend. Clearing an empty slot is a
// no-op.
func (s *Store) ClearDatabase() bool {
	if s.database == nil {
		return false
	}
	s.database = nil
	logging.Info("Store", "cleared database backend")
	return true
}

// Sources returns the accumulated datasource records ordered by relation id,
// so that iteration order (and therefore rendered output) is deterministic.
func (s *Store) Sources() []DatasourceRecord {
	records := make([]DatasourceRecord, 0, len(s.sources))
	for _, r := range s.sources {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RelationID < records[j].RelationID
	})
	return records
}

// PendingDeletions returns the sorted names awaiting removal from the
// rendered provisioning document.
func (s *Store) PendingDeletions() []string {
	names := make([]string, 0, len(s.pendingDeletions))
	for n := range s.pendingDeletions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ClearPendingDeletions empties the deletion list. The controller calls this
// after a render has been pushed and applied, so the list never grows without
// bound.
func (s *Store) ClearPendingDeletions() {
	s.pendingDeletions = make(map[string]bool)
}

// Database returns the current backend record, if one is set.
func (s *Store) Database() (DatabaseRecord, bool) {
	if s.database == nil {
		return DatabaseRecord{}, false
	}
	return *s.database, true
}

// HasSource reports whether a fragment exists for the given relation.
func (s *Store) HasSource(relationID string) bool {
	_, ok := s.sources[relationID]
	return ok
}
