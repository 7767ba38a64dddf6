package vhost

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"httpdctl/internal/events"
	"httpdctl/internal/state"
	"httpdctl/internal/systemd"
	"httpdctl/pkg/logging"
)

// SiteWriter is the site control surface the activator drives. It is
// implemented by apache.Probe.
type SiteWriter interface {
	// WriteVhost materializes the site configuration file and returns its
	// path.
	WriteVhost(name, content string) (string, error)

	// EnableSite activates a named site configuration.
	EnableSite(ctx context.Context, site string) error
}

// Activator materializes and activates virtual-host configurations,
// gated on service readiness.
type Activator struct {
	sites    SiteWriter
	unit     systemd.UnitController
	unitName string
}

// NewActivator creates an Activator for the given unit.
func NewActivator(sites SiteWriter, unit systemd.UnitController, unitName string) *Activator {
	return &Activator{sites: sites, unit: unit, unitName: unitName}
}

// ActivateVhosts handles a dependent-configuration-changed event.
//
// The pass walks a gate chain before touching anything:
//   - service not ready: the event is deferred (redelivered later), no
//     state is mutated;
//   - no originating peer identity yet: skipped without deferral, since
//     the peer is expected to arrive via a different event;
//   - empty payload: skipped without deferral, nothing to do yet.
//
// Once past the gates, each vhost is rendered, written and enabled in
// input order, then one batched reload applies the whole set. A failure
// aborts the remaining batch; sites activated before the failure stay
// activated. The activated site names handled so far are always returned.
func (a *Activator) ActivateVhosts(ctx context.Context, st *state.Applied, serverName string, ev events.Event) (events.Outcome, []string, error) {
	if !st.Ready {
		logging.Info("Vhost", "Service not ready, deferring vhost activation")
		return events.OutcomeDeferred, nil, nil
	}

	if ev.Peer == "" {
		logging.Debug("Vhost", "No peer observed yet, skipping vhost activation")
		return events.OutcomeSkipped, nil, nil
	}

	if strings.TrimSpace(ev.Payload) == "" {
		logging.Debug("Vhost", "No vhosts provided yet, skipping vhost activation")
		return events.OutcomeSkipped, nil, nil
	}

	var specs []Spec
	if err := yaml.Unmarshal([]byte(ev.Payload), &specs); err != nil {
		return events.OutcomeApplied, nil, fmt.Errorf("failed to decode vhost payload from %s: %w", ev.Peer, err)
	}

	var activated []string
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return events.OutcomeApplied, activated, err
		}

		content, err := spec.Render(serverName)
		if err != nil {
			return events.OutcomeApplied, activated, err
		}

		name := spec.SiteName(serverName)
		if _, err := a.sites.WriteVhost(name, content); err != nil {
			return events.OutcomeApplied, activated, err
		}
		if err := a.sites.EnableSite(ctx, name); err != nil {
			return events.OutcomeApplied, activated, err
		}
		activated = append(activated, name)
	}

	// One reload for the whole batch, so the activations land together.
	if err := a.unit.Run(ctx, systemd.CommandReload, a.unitName); err != nil {
		return events.OutcomeApplied, activated, err
	}

	logging.Info("Vhost", "Activated %d vhost(s) from %s", len(activated), ev.Peer)
	return events.OutcomeApplied, activated, nil
}
