package reconciler

import (
	"context"

	"httpdctl/internal/events"
	"httpdctl/internal/state"
	"httpdctl/internal/systemd"
	"httpdctl/pkg/logging"
)

// Gate assesses and exposes service readiness, the precondition for
// dependent operations such as vhost activation.
type Gate struct {
	unit     systemd.UnitController
	store    *state.Store
	bus      *events.Bus
	unitName string
}

// NewGate creates a readiness gate for the given unit.
func NewGate(unit systemd.UnitController, store *state.Store, bus *events.Bus, unitName string) *Gate {
	return &Gate{unit: unit, store: store, bus: bus, unitName: unitName}
}

// Assess probes whether the managed unit is active and records the result.
// The signal is level-triggered: while the unit stays active, every call
// re-emits the service-ready event, so subscribers must tolerate redundant
// signals. An inactive unit clears readiness and emits nothing.
func (g *Gate) Assess(ctx context.Context, st *state.Applied) (bool, error) {
	active, err := g.unit.IsActive(ctx, g.unitName)
	if err != nil {
		return false, err
	}

	st.Ready = active
	if err := g.store.Save(st); err != nil {
		return false, err
	}

	if active {
		logging.Info("Readiness", "Unit %s is active, emitting service-ready", g.unitName)
		g.bus.Publish(events.NewServiceReady())
	} else {
		logging.Info("Readiness", "Unit %s is not active", g.unitName)
	}
	return active, nil
}
