// Package controller implements the event-driven reconciliation core of the
// grafop operator.
//
// Detectors (workload probe, relation informer, config watcher, actions
// spool) translate outside changes into Events on a shared channel. The
// Manager consumes that channel on a single goroutine and hands each event
// to the Controller, which folds relation fragments into the store,
// re-renders the Grafana artifacts, and drives the workload through its
// supervisor gateway. Because exactly one event is in flight at a time, the
// controller and store need no locking.
//
// Mutating shared relation state is leader-gated; managing this unit's own
// workload is not.
package controller
