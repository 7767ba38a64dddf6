package systemd

import (
	"context"
	"fmt"

	"httpdctl/internal/execx"
	"httpdctl/pkg/logging"
)

// Command is a systemctl verb from the subset the controller supports.
type Command string

const (
	CommandStart        Command = "start"
	CommandStop         Command = "stop"
	CommandRestart      Command = "restart"
	CommandReload       Command = "reload"
	CommandEnable       Command = "enable"
	CommandDisable      Command = "disable"
	CommandDaemonReload Command = "daemon-reload"
)

// supportedCommands is the closed set of unit commands the controller will
// execute. Anything outside this set is rejected before touching the system.
var supportedCommands = map[Command]struct{}{
	CommandStart:        {},
	CommandStop:         {},
	CommandRestart:      {},
	CommandReload:       {},
	CommandEnable:       {},
	CommandDisable:      {},
	CommandDaemonReload: {},
}

// Supported reports whether the command is in the allowed subset.
func Supported(cmd Command) bool {
	_, ok := supportedCommands[cmd]
	return ok
}

// UnitCommandError indicates a control-surface command was either not in the
// supported command set or returned an unexpected status.
type UnitCommandError struct {
	Command Command
	Unit    string
	Status  int
	Reason  string
}

func (e *UnitCommandError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("systemd command %q on unit %s: %s", e.Command, e.Unit, e.Reason)
	}
	return fmt.Sprintf("got unexpected return code %d while executing %s on unit %s", e.Status, e.Command, e.Unit)
}

// UnitController is the service control surface. It runs lifecycle commands
// against a named unit and probes whether the unit is currently active.
type UnitController interface {
	// Run executes a supported command on the unit. Unsupported commands
	// and non-zero statuses yield a *UnitCommandError.
	Run(ctx context.Context, cmd Command, unit string) error

	// IsActive reports whether the unit is currently active. The result is
	// probed fresh on every call and never cached.
	IsActive(ctx context.Context, unit string) (bool, error)
}

// SystemctlController drives units by shelling out to systemctl.
type SystemctlController struct {
	runner execx.Runner
}

// NewSystemctlController creates a UnitController backed by the systemctl
// binary.
func NewSystemctlController(runner execx.Runner) *SystemctlController {
	return &SystemctlController{runner: runner}
}

// Run implements UnitController.
func (c *SystemctlController) Run(ctx context.Context, cmd Command, unit string) error {
	if !Supported(cmd) {
		return &UnitCommandError{
			Command: cmd,
			Unit:    unit,
			Reason:  fmt.Sprintf("command %q is not supported", cmd),
		}
	}

	logging.Info("Systemd", "Running systemctl %s %s", cmd, unit)

	rc, err := c.runner.Run(ctx, "systemctl", string(cmd), unit)
	if err != nil {
		return &UnitCommandError{Command: cmd, Unit: unit, Reason: err.Error()}
	}
	if rc != 0 {
		return &UnitCommandError{Command: cmd, Unit: unit, Status: rc}
	}
	return nil
}

// IsActive implements UnitController. systemctl is-active returns a non-zero
// exit code for an inactive unit.
func (c *SystemctlController) IsActive(ctx context.Context, unit string) (bool, error) {
	rc, err := c.runner.Run(ctx, "systemctl", "is-active", unit)
	if err != nil {
		return false, fmt.Errorf("failed to probe unit %s: %w", unit, err)
	}
	return rc == 0, nil
}
