package app

import (
	"context"

	"httpdctl/internal/apache"
	"httpdctl/internal/config"
	"httpdctl/internal/events"
	"httpdctl/internal/execx"
	"httpdctl/internal/installer"
	"httpdctl/internal/state"
	"httpdctl/internal/systemd"
	"httpdctl/pkg/logging"
)

// Services holds the wired collaborators. The reconciliation engine and
// vhost activator are built per pass, since the managed unit name comes
// from the declared configuration snapshot.
type Services struct {
	Runner    execx.Runner
	Unit      systemd.UnitController
	Probe     *apache.Probe
	Store     *state.Store
	Bus       *events.Bus
	Queue     *events.Queue
	Installer *installer.Installer

	closeUnit func()
}

// NewServices wires the collaborators for the given configuration.
func NewServices(ctx context.Context, cfg Config) (*Services, error) {
	runner := execx.NewExecRunner()

	var unit systemd.UnitController
	var closeUnit func()
	if cfg.UseDBus {
		dbusUnit, err := systemd.NewDBusController(ctx)
		if err != nil {
			return nil, err
		}
		unit = dbusUnit
		closeUnit = dbusUnit.Close
		logging.Info("App", "Using systemd dbus controller")
	} else {
		unit = systemd.NewSystemctlController(runner)
	}

	return &Services{
		Runner:    runner,
		Unit:      unit,
		Probe:     apache.NewProbe(runner, cfg.ApacheConfigDir),
		Store:     state.NewStore(config.NewStorageWithPath(cfg.DataPath)),
		Bus:       events.NewBus(),
		Queue:     events.NewQueue(),
		Installer: installer.New(runner),
		closeUnit: closeUnit,
	}, nil
}

// Close releases held resources.
func (s *Services) Close() {
	if s.closeUnit != nil {
		s.closeUnit()
	}
}

// DefaultSiteConf is the stock site shipped with the apache2 package,
// disabled during initial setup so only managed vhosts are active.
const DefaultSiteConf = "000-default.conf"

// InitialSetup installs the managed service and brings the controller
// state to its post-install baseline: empty applied module set, stock
// default site disabled.
func (s *Services) InitialSetup(ctx context.Context) error {
	if err := s.Store.Init(); err != nil {
		return err
	}

	logging.Info("App", "Installing apache2")
	if err := s.Installer.Install(ctx, []string{"apache2"}, nil); err != nil {
		return err
	}

	return s.Probe.DisableSite(ctx, DefaultSiteConf)
}
