package apache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"httpdctl/internal/execx"
	"httpdctl/pkg/logging"
)

// DefaultConfigDir is where Debian-flavoured apache2 keeps its
// configuration tree.
const DefaultConfigDir = "/etc/apache2"

// Probe queries and toggles apache2 module and site state through the
// a2query/a2enmod/a2dismod/a2ensite/a2dissite tool family, and
// materializes vhost configuration files under the configuration root.
type Probe struct {
	runner    execx.Runner
	configDir string
}

// NewProbe creates a Probe using the given runner and configuration root.
// An empty configDir falls back to DefaultConfigDir.
func NewProbe(runner execx.Runner, configDir string) *Probe {
	if configDir == "" {
		configDir = DefaultConfigDir
	}
	return &Probe{runner: runner, configDir: configDir}
}

// QueryModule classifies a module through a2query's exit code.
func (p *Probe) QueryModule(ctx context.Context, module string) (ModuleState, error) {
	rc, err := p.runner.Run(ctx, "a2query", "-m", module)
	if err != nil {
		return ModuleNotFound, fmt.Errorf("failed to query module %s: %w", module, err)
	}
	state, known := ModuleStateFromCode(rc)
	if !known {
		return state, fmt.Errorf("unexpected a2query exit code %d for module %s", rc, module)
	}
	return state, nil
}

// EnableModule enables a module. Enabling an already-enabled module is a
// no-op for a2enmod and still reports ToggleApplied.
func (p *Probe) EnableModule(ctx context.Context, module string) (ToggleResult, error) {
	logging.Info("Apache", "Enabling apache2 module %s", module)
	if err := execx.CheckRun(ctx, p.runner, "a2enmod", module); err != nil {
		return ToggleApplied, &ModuleEnableError{Module: module, Err: err}
	}
	return ToggleApplied, nil
}

// DisableModule disables a module. A module already off by admin or
// maintainer policy is treated as satisfied without invoking the external
// command; a module the registry does not know is an error, since the
// engine was asked to manage something the system cannot see.
func (p *Probe) DisableModule(ctx context.Context, module string) (ToggleResult, error) {
	state, err := p.QueryModule(ctx, module)
	if err != nil {
		return ToggleApplied, &ModuleDisableError{Module: module, Reason: "unexpected module state", Err: err}
	}

	switch state {
	case ModuleFound:
		logging.Info("Apache", "Disabling apache2 module %s", module)
		if err := execx.CheckRun(ctx, p.runner, "a2dismod", module); err != nil {
			return ToggleApplied, &ModuleDisableError{Module: module, Err: err}
		}
		return ToggleApplied, nil
	case ModuleOffByAdmin, ModuleOffByMaintainer:
		logging.Info("Apache", "Apache2 module %s is already disabled", module)
		return ToggleAlreadySatisfied, nil
	case ModuleNotFound:
		return ToggleApplied, &ModuleDisableError{Module: module, Reason: fmt.Sprintf("module %s was not found", module)}
	default:
		return ToggleApplied, &ModuleDisableError{Module: module, Reason: fmt.Sprintf("unexpected module state %s", state)}
	}
}

// EnableSite enables a named site configuration.
func (p *Probe) EnableSite(ctx context.Context, site string) error {
	logging.Info("Apache", "Enabling site %s", site)
	if err := execx.CheckRun(ctx, p.runner, "a2ensite", site); err != nil {
		return &SiteEnableError{Site: site, Err: err}
	}
	return nil
}

// DisableSite disables a named site configuration.
func (p *Probe) DisableSite(ctx context.Context, site string) error {
	logging.Info("Apache", "Disabling site %s", site)
	if err := execx.CheckRun(ctx, p.runner, "a2dissite", site); err != nil {
		return &SiteDisableError{Site: site, Err: err}
	}
	return nil
}

// WriteVhost materializes a vhost configuration file under
// <configDir>/sites-available and returns the written path. The file must
// exist before the site can be enabled.
func (p *Probe) WriteVhost(name, content string) (string, error) {
	dir := filepath.Join(p.configDir, "sites-available")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".conf")
	logging.Info("Apache", "Writing vhost config to %s", path)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write vhost config %s: %w", path, err)
	}
	return path, nil
}
