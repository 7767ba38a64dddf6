package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies an event in the closed set the dispatcher handles.
// There is no open subclassing; handlers switch exhaustively on Kind.
type Kind string

const (
	// KindConfigChanged signals the declared configuration changed and a
	// reconciliation pass is due.
	KindConfigChanged Kind = "ConfigChanged"

	// KindVhostConfigChanged signals dependent (vhost) configuration
	// changed. Handling is gated on service readiness.
	KindVhostConfigChanged Kind = "VhostConfigChanged"

	// KindServiceReady signals the managed service was probed active. It
	// is level-triggered: it re-fires on every assessment while the
	// service is active, so consumers must react idempotently.
	KindServiceReady Kind = "ServiceReady"
)

// Event is one dispatchable occurrence. Peer and Payload are only set for
// KindVhostConfigChanged.
type Event struct {
	ID        string
	Kind      Kind
	Timestamp time.Time

	// Peer is the originating peer identity for dependent-config events.
	Peer string

	// Payload is the serialized vhost list for dependent-config events.
	Payload string
}

// NewConfigChanged creates a configuration-changed event.
func NewConfigChanged() Event {
	return Event{ID: uuid.NewString(), Kind: KindConfigChanged, Timestamp: time.Now()}
}

// NewVhostConfigChanged creates a dependent-configuration-changed event.
func NewVhostConfigChanged(peer, payload string) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      KindVhostConfigChanged,
		Timestamp: time.Now(),
		Peer:      peer,
		Payload:   payload,
	}
}

// NewServiceReady creates a service-ready event.
func NewServiceReady() Event {
	return Event{ID: uuid.NewString(), Kind: KindServiceReady, Timestamp: time.Now()}
}

// Outcome is the three-way result of a handler with preconditions, so the
// scheduler knows whether to requeue, drop, or proceed.
type Outcome int

const (
	// OutcomeApplied means the handler ran to completion.
	OutcomeApplied Outcome = iota

	// OutcomeDeferred means a precondition is not yet true; the event must
	// be redelivered later. No state was mutated.
	OutcomeDeferred

	// OutcomeSkipped means the event carried nothing actionable; it is
	// dropped, and the condition is expected to resolve via a different
	// event, not a retry of this one.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "Applied"
	case OutcomeDeferred:
		return "Deferred"
	case OutcomeSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}
