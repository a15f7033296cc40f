package store

import "fmt"

// nameRegistry tracks the datasource names currently allocated, keeping them
// unique across all accumulated sources.
type nameRegistry struct {
	allocated map[string]bool
}

func newNameRegistry() nameRegistry {
	return nameRegistry{allocated: make(map[string]bool)}
}

// Allocate reserves the requested name, or the fallback when the request is
// empty or already taken. The fallback is assumed unique by construction
// (it embeds the relation id); if even the fallback collides, a numeric
// suffix is appended until a free name is found. The second return value
// reports whether the fallback path was taken.
func (r *nameRegistry) Allocate(requested, fallback string) (string, bool) {
	if requested != "" && !r.allocated[requested] {
		r.allocated[requested] = true
		return requested, false
	}

	name := fallback
	for i := 2; r.allocated[name]; i++ {
		name = fmt.Sprintf("%s_%d", fallback, i)
	}
	r.allocated[name] = true
	return name, true
}

// Release frees a name for reuse. Releasing an unknown name is harmless.
func (r *nameRegistry) Release(name string) {
	delete(r.allocated, name)
}

// Has reports whether a name is currently allocated.
func (r *nameRegistry) Has(name string) bool {
	return r.allocated[name]
}

// fallbackName is the deterministic name used when a peer supplies no usable
// datasource name.
func fallbackName(peerApp, relationID string) string {
	return fmt.Sprintf("%s_%s", peerApp, relationID)
}
