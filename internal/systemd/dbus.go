package systemd

import (
	"context"
	"fmt"
	"strings"

	sd "github.com/coreos/go-systemd/v22/dbus"

	"httpdctl/pkg/logging"
)

// DBusController drives units over the systemd D-Bus API instead of
// spawning systemctl. It blocks on job completion so callers observe the
// same synchronous semantics as the exec-based controller.
type DBusController struct {
	conn *sd.Conn
}

// NewDBusController connects to the system bus.
func NewDBusController(ctx context.Context) (*DBusController, error) {
	conn, err := sd.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd over dbus: %w", err)
	}
	return &DBusController{conn: conn}, nil
}

// Close releases the D-Bus connection.
func (c *DBusController) Close() {
	c.conn.Close()
}

// unitName qualifies a bare unit name with the .service suffix the D-Bus
// API expects. systemctl does the same qualification internally.
func unitName(unit string) string {
	if strings.Contains(unit, ".") {
		return unit
	}
	return unit + ".service"
}

// Run implements UnitController.
func (c *DBusController) Run(ctx context.Context, cmd Command, unit string) error {
	if !Supported(cmd) {
		return &UnitCommandError{
			Command: cmd,
			Unit:    unit,
			Reason:  fmt.Sprintf("command %q is not supported", cmd),
		}
	}

	name := unitName(unit)
	logging.Info("Systemd", "Running %s on unit %s via dbus", cmd, name)

	switch cmd {
	case CommandStart:
		return c.runJob(ctx, cmd, unit, func(ch chan<- string) (int, error) {
			return c.conn.StartUnitContext(ctx, name, "replace", ch)
		})
	case CommandStop:
		return c.runJob(ctx, cmd, unit, func(ch chan<- string) (int, error) {
			return c.conn.StopUnitContext(ctx, name, "replace", ch)
		})
	case CommandRestart:
		return c.runJob(ctx, cmd, unit, func(ch chan<- string) (int, error) {
			return c.conn.RestartUnitContext(ctx, name, "replace", ch)
		})
	case CommandReload:
		return c.runJob(ctx, cmd, unit, func(ch chan<- string) (int, error) {
			return c.conn.ReloadUnitContext(ctx, name, "replace", ch)
		})
	case CommandEnable:
		_, _, err := c.conn.EnableUnitFilesContext(ctx, []string{name}, false, true)
		if err != nil {
			return &UnitCommandError{Command: cmd, Unit: unit, Reason: err.Error()}
		}
		return nil
	case CommandDisable:
		_, err := c.conn.DisableUnitFilesContext(ctx, []string{name}, false)
		if err != nil {
			return &UnitCommandError{Command: cmd, Unit: unit, Reason: err.Error()}
		}
		return nil
	case CommandDaemonReload:
		if err := c.conn.ReloadContext(ctx); err != nil {
			return &UnitCommandError{Command: cmd, Unit: unit, Reason: err.Error()}
		}
		return nil
	default:
		return &UnitCommandError{Command: cmd, Unit: unit, Reason: "unhandled command"}
	}
}

// runJob executes a unit job and waits for its result. systemd reports the
// terminal job state as a string; anything but "done" is a failure.
func (c *DBusController) runJob(ctx context.Context, cmd Command, unit string, start func(chan<- string) (int, error)) error {
	results := make(chan string, 1)
	if _, err := start(results); err != nil {
		return &UnitCommandError{Command: cmd, Unit: unit, Reason: err.Error()}
	}

	select {
	case result := <-results:
		if result != "done" {
			return &UnitCommandError{Command: cmd, Unit: unit, Reason: fmt.Sprintf("job finished with result %q", result)}
		}
		return nil
	case <-ctx.Done():
		return &UnitCommandError{Command: cmd, Unit: unit, Reason: ctx.Err().Error()}
	}
}

// IsActive implements UnitController by reading the unit's ActiveState
// property.
func (c *DBusController) IsActive(ctx context.Context, unit string) (bool, error) {
	props, err := c.conn.GetUnitPropertiesContext(ctx, unitName(unit))
	if err != nil {
		return false, fmt.Errorf("failed to probe unit %s: %w", unit, err)
	}
	stateVal, ok := props["ActiveState"]
	if !ok {
		return false, fmt.Errorf("unit %s has no ActiveState property", unit)
	}
	activeState, ok := stateVal.(string)
	if !ok {
		return false, fmt.Errorf("unexpected ActiveState type %T for unit %s", stateVal, unit)
	}
	return activeState == "active", nil
}
