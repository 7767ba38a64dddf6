package config

import (
	"fmt"
	"strings"
)

// DefaultUnit is the systemd unit the controller manages unless the
// declared configuration overrides it.
const DefaultUnit = "apache2"

// VhostChannel carries the dependent-configuration data delivered by a
// peer unit. The payload is an opaque serialized vhost list; decoding it
// is the activator's concern.
type VhostChannel struct {
	// Peer is the originating peer identity. Activation is skipped (not
	// deferred) while no peer has been observed.
	Peer string `yaml:"peer,omitempty"`

	// Payload is the serialized (YAML) list of vhost definitions.
	Payload string `yaml:"payload,omitempty"`
}

// DesiredConfig is the declared configuration the controller drives the
// managed service toward. It is treated as an immutable snapshot for the
// duration of one reconciliation pass.
type DesiredConfig struct {
	// Modules is a whitespace-separated token string naming the modules
	// that should be enabled.
	Modules string `yaml:"modules"`

	// ServerName names the server for derived vhost site identifiers.
	ServerName string `yaml:"server_name"`

	// Unit is the managed systemd unit. Defaults to DefaultUnit.
	Unit string `yaml:"unit,omitempty"`

	// Vhosts is the dependent-configuration channel, if any data has been
	// delivered yet.
	Vhosts VhostChannel `yaml:"vhosts,omitempty"`
}

// ModuleNames returns the declared module names, order preserved as
// written, with empty tokens dropped.
func (c *DesiredConfig) ModuleNames() []string {
	return strings.Fields(c.Modules)
}

// UnitName returns the managed unit, applying the default.
func (c *DesiredConfig) UnitName() string {
	if c.Unit == "" {
		return DefaultUnit
	}
	return c.Unit
}

// Validate checks the snapshot for declarations the controller cannot act
// on.
func (c *DesiredConfig) Validate() error {
	if c.ServerName == "" && c.Vhosts.Payload != "" {
		return fmt.Errorf("server_name is required when a vhost payload is declared")
	}
	return nil
}
