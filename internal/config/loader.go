package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"httpdctl/pkg/logging"
)

// Load reads and validates a declared configuration snapshot from a YAML
// file. Each reconciliation pass loads a fresh snapshot; the file is never
// watched or cached here.
func Load(path string) (*DesiredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg DesiredConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logging.Debug("Config", "Loaded declared config from %s (%d modules)", path, len(cfg.ModuleNames()))
	return &cfg, nil
}
