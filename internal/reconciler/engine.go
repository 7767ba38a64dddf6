package reconciler

import (
	"context"

	"httpdctl/internal/apache"
	"httpdctl/internal/state"
	"httpdctl/internal/systemd"
	"httpdctl/pkg/logging"
)

// ModuleToggler is the module control surface the engine drives. It is
// implemented by apache.Probe and by fakes in tests.
type ModuleToggler interface {
	// EnableModule enables a module; enabling an already-enabled module
	// is idempotent.
	EnableModule(ctx context.Context, name string) (apache.ToggleResult, error)

	// DisableModule disables a module; a module already off by policy
	// reports ToggleAlreadySatisfied without touching the system.
	DisableModule(ctx context.Context, name string) (apache.ToggleResult, error)
}

// Decision records what one reconciliation pass did, for logs and tests.
type Decision struct {
	// Disabled and Enabled list the modules toggled, in application order.
	Disabled []string
	Enabled  []string

	// Restarted is true when the pass issued a service restart.
	Restarted bool

	// Ready is the readiness assessment taken at the end of the pass.
	Ready bool
}

// Engine is the reconciliation core. It diffs desired against applied
// module configuration, applies toggles in a deterministic order, decides
// on restart, persists state write-through, and reassesses readiness.
//
// The engine never assumes ambient state: the applied state is passed in,
// mutated as toggles commit, and persisted through the store.
type Engine struct {
	toggler  ModuleToggler
	unit     systemd.UnitController
	store    *state.Store
	gate     *Gate
	unitName string
}

// NewEngine creates an Engine for the given unit.
func NewEngine(toggler ModuleToggler, unit systemd.UnitController, store *state.Store, gate *Gate, unitName string) *Engine {
	return &Engine{
		toggler:  toggler,
		unit:     unit,
		store:    store,
		gate:     gate,
		unitName: unitName,
	}
}

// Reconcile drives the applied module set toward desired.
//
// The symmetric difference is computed against the pre-mutation applied
// set and decides restart only; the sets to touch are to_disable
// (applied − desired) and the full desired set. Disables run strictly
// before enables, both in sorted order. Each successful toggle is
// committed into st and persisted before the next toggle runs, so a
// failure aborts the pass with all prior progress recorded.
//
// A restart fires whenever any toggle activity occurred, even when the
// final set equals the starting set: a toggle invalidates the service's
// loaded module table regardless of net effect.
func (e *Engine) Reconcile(ctx context.Context, st *state.Applied, desired state.ModuleSet) (Decision, error) {
	var decision Decision

	current := st.CurrentModules
	toDisable := current.Difference(desired)
	changed := current.SymmetricDifference(desired)

	logging.Info("Reconciler", "Reconciling modules: current=%v desired=%v", current.Sorted(), desired.Sorted())

	// Nothing differs, so no toggle may run. Readiness is still reassessed
	// since the probe mutates nothing.
	if changed.Len() == 0 {
		ready, err := e.gate.Assess(ctx, st)
		if err != nil {
			return decision, err
		}
		decision.Ready = ready
		return decision, nil
	}

	for _, module := range toDisable.Sorted() {
		result, err := e.toggler.DisableModule(ctx, module)
		if err != nil {
			return decision, err
		}
		logging.Debug("Reconciler", "Disable %s: %s", module, result)

		current.Remove(module)
		if err := e.store.Save(st); err != nil {
			return decision, err
		}
		decision.Disabled = append(decision.Disabled, module)
	}

	for _, module := range desired.Sorted() {
		result, err := e.toggler.EnableModule(ctx, module)
		if err != nil {
			return decision, err
		}
		logging.Debug("Reconciler", "Enable %s: %s", module, result)

		current.Add(module)
		if err := e.store.Save(st); err != nil {
			return decision, err
		}
		decision.Enabled = append(decision.Enabled, module)
	}

	// Modules were either enabled or disabled, so a restart is needed.
	if err := e.unit.Run(ctx, systemd.CommandRestart, e.unitName); err != nil {
		return decision, err
	}
	decision.Restarted = true

	ready, err := e.gate.Assess(ctx, st)
	if err != nil {
		return decision, err
	}
	decision.Ready = ready

	return decision, nil
}
