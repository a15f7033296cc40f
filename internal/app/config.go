package app

import (
	"grafop/internal/config"
)

// Options holds the command-line level settings for the operator process.
type Options struct {
	// Debug enables debug-level logging.
	Debug bool

	// Silent suppresses all log output. Used by tests and scripting.
	Silent bool

	// ConfigPath points at the operator's config.yaml. The file is watched
	// for changes while running; it not existing yet is fine.
	ConfigPath string

	// Config is the loaded configuration, populated during bootstrap.
	Config *config.Config
}

// NewOptions creates the application options.
func NewOptions(debug, silent bool, configPath string) *Options {
	return &Options{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
