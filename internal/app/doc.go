// Package app boots the grafop operator: it loads configuration and
// persisted fragment state, builds the supervisor gateway and the event
// detectors for the configured mode, and runs the controller's event loop.
//
// Two modes exist. In kubernetes mode relations arrive through ConfigMap
// informers and leadership through a Lease; in standalone mode the unit is
// always leader and only the local detectors (workload probe, config file,
// actions spool) feed the loop.
package app
