// Package leader provides the leadership gate for multi-unit deployments.
//
// Concurrency across operator replicas is the only concurrency the
// reconciliation core has to worry about, and the elector is the sole
// mutual-exclusion mechanism: relation-visible writes happen on the leader,
// everyone else is read-only. In standalone mode the single unit is trivially
// the leader; in kubernetes mode a coordination Lease decides.
package leader
