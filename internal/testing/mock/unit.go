package mock

import (
	"context"
	"sync"

	"httpdctl/internal/systemd"
)

// UnitController is a recording systemd.UnitController for tests.
type UnitController struct {
	mu sync.Mutex

	// Active is the answer IsActive returns.
	Active bool

	// ActiveErr, when set, is returned by IsActive.
	ActiveErr error

	// RunErrs maps a command to the error Run should return for it.
	RunErrs map[systemd.Command]error

	commands []systemd.Command
	probes   int
}

// NewUnitController creates a controller reporting an active unit.
func NewUnitController() *UnitController {
	return &UnitController{
		Active:  true,
		RunErrs: make(map[systemd.Command]error),
	}
}

// Run implements systemd.UnitController.
func (c *UnitController) Run(ctx context.Context, cmd systemd.Command, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, cmd)
	return c.RunErrs[cmd]
}

// IsActive implements systemd.UnitController.
func (c *UnitController) IsActive(ctx context.Context, unit string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes++
	return c.Active, c.ActiveErr
}

// Commands returns every command issued, in order.
func (c *UnitController) Commands() []systemd.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]systemd.Command, len(c.commands))
	copy(out, c.commands)
	return out
}

// CountCommand returns how many times the command was issued.
func (c *UnitController) CountCommand(cmd systemd.Command) int {
	count := 0
	for _, got := range c.Commands() {
		if got == cmd {
			count++
		}
	}
	return count
}

// Probes returns how many times IsActive was called.
func (c *UnitController) Probes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.probes
}
