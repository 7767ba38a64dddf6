package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_AddAndGet(t *testing.T) {
	q := NewQueue()
	q.Add(NewConfigChanged())

	assert.Equal(t, 1, q.Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, ok := q.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, KindConfigChanged, ev.Kind)
	q.Done(ev)
}

func TestQueue_DeduplicatesByKind(t *testing.T) {
	q := NewQueue()
	q.Add(NewVhostConfigChanged("peer/0", "old payload"))
	q.Add(NewVhostConfigChanged("peer/0", "new payload"))

	assert.Equal(t, 1, q.Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, ok := q.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "new payload", ev.Payload)
	q.Done(ev)
}

func TestQueue_DirtyRequeueWhileProcessing(t *testing.T) {
	q := NewQueue()
	q.Add(NewConfigChanged())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, ok := q.Get(ctx)
	require.True(t, ok)

	// Same kind arrives while processing; it must be queued after Done.
	q.Add(NewConfigChanged())
	assert.Equal(t, 0, q.Len())

	q.Done(ev)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_DeferAndRedeliver(t *testing.T) {
	q := NewQueue()
	q.Add(NewVhostConfigChanged("peer/0", "payload"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, ok := q.Get(ctx)
	require.True(t, ok)

	q.Defer(ev)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 1, q.DeferredLen())

	q.Redeliver()
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 0, q.DeferredLen())

	redelivered, ok := q.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, ev.ID, redelivered.ID, "the same event must be redelivered")
	q.Done(redelivered)
}

func TestQueue_FreshEventSupersedesDeferred(t *testing.T) {
	q := NewQueue()
	q.Add(NewVhostConfigChanged("peer/0", "stale"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, ok := q.Get(ctx)
	require.True(t, ok)
	q.Defer(ev)

	q.Add(NewVhostConfigChanged("peer/0", "fresh"))
	assert.Equal(t, 0, q.DeferredLen(), "fresh event must replace the deferred one")

	got, ok := q.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "fresh", got.Payload)
	q.Done(got)

	q.Redeliver()
	assert.Equal(t, 0, q.Len(), "superseded deferred event must not reappear")
}

func TestQueue_GetCancelledContext(t *testing.T) {
	q := NewQueue()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, ok := q.Get(ctx)
	assert.False(t, ok)
}

func TestQueue_Shutdown(t *testing.T) {
	q := NewQueue()
	q.Shutdown()

	q.Add(NewConfigChanged())
	assert.Equal(t, 0, q.Len(), "events must not be accepted after shutdown")

	_, ok := q.Get(context.Background())
	assert.False(t, ok)
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	sub := b.Subscribe()

	b.Publish(NewServiceReady())

	select {
	case ev := <-sub:
		assert.Equal(t, KindServiceReady, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected to receive published event")
	}
}

func TestBus_PublishDoesNotBlock(t *testing.T) {
	b := NewBus()
	b.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(NewServiceReady())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "Applied", OutcomeApplied.String())
	assert.Equal(t, "Deferred", OutcomeDeferred.String())
	assert.Equal(t, "Skipped", OutcomeSkipped.String())
}
