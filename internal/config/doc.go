// Package config defines the static configuration of the grafop operator.
//
// Configuration is a single YAML file overlaid on built-in defaults. The
// values here feed two places: the rendered Grafana launch environment
// (port, log level, file paths) and the operator's own runtime wiring
// (supervisor socket, watch mode, state file, actions spool).
//
// Changes to the file at runtime are picked up by the controller's config
// watcher and re-applied without restarting the operator.
package config
