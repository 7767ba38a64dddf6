package app

import (
	"time"

	"httpdctl/internal/apache"
	"httpdctl/internal/config"
)

// DefaultConfigPath is where the declared configuration is read from
// unless overridden.
const DefaultConfigPath = "/etc/httpdctl/httpdctl.yaml"

// Config holds the application-level configuration assembled from CLI
// flags.
type Config struct {
	// ConfigPath is the declared-configuration YAML file to watch.
	ConfigPath string

	// DataPath is the directory for persisted controller state.
	DataPath string

	// ApacheConfigDir is the apache2 configuration root.
	ApacheConfigDir string

	// UseDBus selects the systemd D-Bus controller instead of shelling
	// out to systemctl.
	UseDBus bool

	// Debug enables verbose logging.
	Debug bool

	// JSONLog switches log output to JSON.
	JSONLog bool

	// RedeliveryInterval is how often deferred events are redelivered.
	RedeliveryInterval time.Duration

	// DebounceInterval is how long the watcher waits for further config
	// file changes before dispatching.
	DebounceInterval time.Duration
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ConfigPath == "" {
		c.ConfigPath = DefaultConfigPath
	}
	if c.DataPath == "" {
		c.DataPath = config.DefaultDataDir
	}
	if c.ApacheConfigDir == "" {
		c.ApacheConfigDir = apache.DefaultConfigDir
	}
	if c.RedeliveryInterval == 0 {
		c.RedeliveryInterval = 30 * time.Second
	}
	if c.DebounceInterval == 0 {
		c.DebounceInterval = 500 * time.Millisecond
	}
}
