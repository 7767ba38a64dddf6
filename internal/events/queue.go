package events

import (
	"context"
	"sync"

	"httpdctl/pkg/logging"
)

// Queue is a dispatch queue with per-kind deduplication and explicit
// deferral. Events are processed one at a time: the dispatcher Gets an
// event, handles it to completion, then calls Done (or Defer when the
// handler reported OutcomeDeferred).
//
// Deduplication key is the event Kind: a newer event of the same kind
// supersedes a queued or deferred one, since each kind carries the full
// current payload.
type Queue struct {
	mu sync.Mutex

	// queue holds pending events in FIFO order
	queue []Event

	// processing tracks kinds currently being handled
	processing map[Kind]bool

	// dirty holds events re-added while their kind was being processed
	dirty map[Kind]Event

	// deferred holds events awaiting redelivery
	deferred map[Kind]Event

	// cond is used for blocking Get operations
	cond *sync.Cond

	// shuttingDown indicates the queue is stopping
	shuttingDown bool
}

// NewQueue creates an empty dispatch queue.
func NewQueue() *Queue {
	q := &Queue{
		processing: make(map[Kind]bool),
		dirty:      make(map[Kind]Event),
		deferred:   make(map[Kind]Event),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add enqueues an event, superseding any queued or deferred event of the
// same kind.
func (q *Queue) Add(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shuttingDown {
		return
	}

	// A fresh event supersedes a deferred one of the same kind.
	delete(q.deferred, ev.Kind)

	if q.processing[ev.Kind] {
		q.dirty[ev.Kind] = ev
		return
	}

	for i, existing := range q.queue {
		if existing.Kind == ev.Kind {
			q.queue[i] = ev
			return
		}
	}

	q.queue = append(q.queue, ev)
	q.cond.Signal()
}

// Get retrieves the next event, blocking until one is available, the
// context is cancelled, or the queue shuts down.
func (q *Queue) Get(ctx context.Context) (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.queue) == 0 && !q.shuttingDown {
		select {
		case <-ctx.Done():
			return Event{}, false
		default:
		}

		// Race a goroutine against cond.Wait so context cancellation can
		// wake the waiter. Closing done ensures the goroutine exits
		// whichever side wins.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.cond.Broadcast()
				q.mu.Unlock()
			case <-done:
			}
		}()

		q.cond.Wait()
		close(done)

		select {
		case <-ctx.Done():
			return Event{}, false
		default:
		}
	}

	if q.shuttingDown && len(q.queue) == 0 {
		return Event{}, false
	}

	ev := q.queue[0]
	q.queue = q.queue[1:]
	q.processing[ev.Kind] = true
	return ev, true
}

// Done marks an event as handled. If a newer event of the same kind
// arrived while handling, it is queued for processing.
func (q *Queue) Done(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.processing, ev.Kind)

	if dirty, ok := q.dirty[ev.Kind]; ok {
		delete(q.dirty, ev.Kind)
		q.queue = append(q.queue, dirty)
		q.cond.Signal()
	}
}

// Defer marks an event for later redelivery. The event is parked until
// Redeliver moves it back into the queue; it is never silently dropped.
func (q *Queue) Defer(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.processing, ev.Kind)

	// A dirty (newer) event wins over the deferred one.
	if dirty, ok := q.dirty[ev.Kind]; ok {
		delete(q.dirty, ev.Kind)
		q.queue = append(q.queue, dirty)
		q.cond.Signal()
		return
	}

	logging.Debug("Events", "Deferring %s event %s for redelivery", ev.Kind, ev.ID)
	q.deferred[ev.Kind] = ev
}

// Redeliver moves all deferred events back into the queue. Called when a
// precondition may have become true (readiness signal, periodic tick).
func (q *Queue) Redeliver() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shuttingDown {
		return
	}

	for kind, ev := range q.deferred {
		delete(q.deferred, kind)
		if q.processing[kind] {
			q.dirty[kind] = ev
			continue
		}
		logging.Debug("Events", "Redelivering deferred %s event %s", ev.Kind, ev.ID)
		q.queue = append(q.queue, ev)
	}
	q.cond.Broadcast()
}

// Len returns the number of pending (not deferred) events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// DeferredLen returns the number of events parked for redelivery.
func (q *Queue) DeferredLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.deferred)
}

// Shutdown stops the queue. Blocked Get calls return false once the queue
// drains.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuttingDown = true
	q.cond.Broadcast()
}
