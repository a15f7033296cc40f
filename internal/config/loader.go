package config

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"grafop/pkg/logging"
)

// Load reads the configuration file at path, overlaying it on the built-in
// defaults. A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := GetDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "no config file at %s, using defaults", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info("Config", "loaded configuration from %s", path)
	return cfg, nil
}
