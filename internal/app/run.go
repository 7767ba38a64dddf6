package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"httpdctl/internal/config"
	"httpdctl/internal/events"
	"httpdctl/internal/reconciler"
	"httpdctl/internal/state"
	"httpdctl/internal/vhost"
	"httpdctl/pkg/logging"
)

// Application is the daemon: a single-threaded event dispatcher plus the
// goroutines that feed its queue (config watcher, readiness subscription,
// deferred-event redelivery ticker).
type Application struct {
	cfg Config
	svc *Services
}

// NewApplication wires an Application from the given configuration.
func NewApplication(ctx context.Context, cfg Config) (*Application, error) {
	cfg.ApplyDefaults()

	svc, err := NewServices(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Application{cfg: cfg, svc: svc}, nil
}

// Run starts the event loop and blocks until the context is cancelled or
// SIGINT/SIGTERM arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.svc.Close()

	readyEvents := a.svc.Bus.Subscribe()

	// Kick an initial pass so the daemon converges on startup without
	// waiting for a file change.
	a.svc.Queue.Add(events.NewConfigChanged())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watchConfig(ctx, a.cfg.ConfigPath, a.cfg.DebounceInterval, a.svc.Queue)
	})

	// A readiness signal means deferred vhost activations may now pass
	// their gate; the signal is level-triggered, redelivery is idempotent.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-readyEvents:
				a.svc.Queue.Redeliver()
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(a.cfg.RedeliveryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				a.svc.Queue.Redeliver()
			}
		}
	})

	g.Go(func() error {
		defer a.svc.Queue.Shutdown()
		return a.dispatch(ctx)
	})

	logging.Info("App", "httpdctl serving, watching %s", a.cfg.ConfigPath)
	return g.Wait()
}

// dispatch processes events one at a time to completion. A failed pass is
// logged and surfaced through state; the operator (or a fresh event)
// decides whether to retry. Only vhost events with an unmet readiness
// precondition are deferred.
func (a *Application) dispatch(ctx context.Context) error {
	for {
		ev, ok := a.svc.Queue.Get(ctx)
		if !ok {
			return nil
		}

		outcome, err := a.handle(ctx, ev)
		if err != nil {
			logging.Error("App", err, "Handling %s event failed", ev.Kind)
			a.svc.Queue.Done(ev)
			continue
		}

		switch outcome {
		case events.OutcomeDeferred:
			a.svc.Queue.Defer(ev)
		default:
			a.svc.Queue.Done(ev)
		}
	}
}

// handle runs one event to completion.
func (a *Application) handle(ctx context.Context, ev events.Event) (events.Outcome, error) {
	switch ev.Kind {
	case events.KindConfigChanged:
		return a.handleConfigChanged(ctx)
	case events.KindVhostConfigChanged:
		return a.handleVhostConfigChanged(ctx, ev)
	default:
		logging.Warn("App", "Ignoring unexpected %s event", ev.Kind)
		return events.OutcomeSkipped, nil
	}
}

// handleConfigChanged runs a reconciliation pass against a fresh declared
// configuration snapshot, then forwards any dependent vhost data as its
// own event.
func (a *Application) handleConfigChanged(ctx context.Context) (events.Outcome, error) {
	desired, err := config.Load(a.cfg.ConfigPath)
	if err != nil {
		return events.OutcomeApplied, err
	}

	st, err := a.svc.Store.Load()
	if err != nil {
		return events.OutcomeApplied, err
	}

	unitName := desired.UnitName()
	gate := reconciler.NewGate(a.svc.Unit, a.svc.Store, a.svc.Bus, unitName)
	engine := reconciler.NewEngine(a.svc.Probe, a.svc.Unit, a.svc.Store, gate, unitName)

	decision, err := engine.Reconcile(ctx, st, state.NewModuleSet(desired.ModuleNames()...))
	if err != nil {
		return events.OutcomeApplied, err
	}
	logging.Info("App", "Reconciled: disabled=%v enabled=%v restarted=%t ready=%t",
		decision.Disabled, decision.Enabled, decision.Restarted, decision.Ready)

	// Dependent configuration rides in on its own event so its gates are
	// evaluated independently of this pass.
	if desired.Vhosts.Peer != "" || desired.Vhosts.Payload != "" {
		a.svc.Queue.Add(events.NewVhostConfigChanged(desired.Vhosts.Peer, desired.Vhosts.Payload))
	}

	return events.OutcomeApplied, nil
}

// handleVhostConfigChanged runs a vhost activation pass.
func (a *Application) handleVhostConfigChanged(ctx context.Context, ev events.Event) (events.Outcome, error) {
	desired, err := config.Load(a.cfg.ConfigPath)
	if err != nil {
		return events.OutcomeApplied, err
	}

	st, err := a.svc.Store.Load()
	if err != nil {
		return events.OutcomeApplied, err
	}

	activator := vhost.NewActivator(a.svc.Probe, a.svc.Unit, desired.UnitName())
	outcome, activated, err := activator.ActivateVhosts(ctx, st, desired.ServerName, ev)
	if err != nil {
		return outcome, err
	}
	if outcome == events.OutcomeApplied {
		logging.Info("App", "Activated sites: %v", activated)
	}
	return outcome, nil
}
