// Package store holds the configuration fragments the operator has
// accumulated from its peer relations: datasource declarations, at most one
// database backend, and the bookkeeping needed to render a consistent
// Grafana provisioning document from them.
//
// The store is the single source of truth for reconciliation. Every render
// is a full recomputation from its contents, which is what makes the
// controller eventually consistent: a failed apply is repaired by the next
// event re-rendering from the same accumulated state.
//
// Validation happens at the mutation boundary. A fragment missing required
// fields never reaches the maps; the operation degrades to a logged warning
// and the prior state survives intact.
package store
