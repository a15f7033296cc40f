// Package logging provides the structured logging system for grafop.
//
// It is a thin layer over Go's standard slog package. Every log call carries
// a subsystem identifier so that the operator's components (Store, Renderer,
// Controller, Workload, Leader) can be filtered in aggregated output.
//
// Initialize once at startup:
//
//	logging.Init(logging.LevelInfo, os.Stdout)
//
// then log from anywhere:
//
//	logging.Info("Controller", "reconciled %d datasources", n)
//	logging.Error("Workload", err, "failed to push %s", path)
//
// Levels follow the usual Debug/Info/Warn/Error ordering; filtering happens
// at the handler, so suppressed messages cost no allocation.
package logging
