package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admissionEvent(t *testing.T) *Event {
	t.Helper()
	event, err := NewAdmissionEvent(AdmissionPayload{
		OwnerID: "mockUser",
		Date:    "2024-01-01",
		Outcome: OutcomeAdmitted,
	})
	require.NoError(t, err)
	return event
}

func TestDispatcherDeliversAllEvents(t *testing.T) {
	var delivered atomic.Int32
	d := NewDispatcher(HandlerFunc(func(ctx context.Context, event *Event) error {
		delivered.Add(1)
		return nil
	}), DispatcherConfig{WorkerCount: 4, QueueSize: 100}, nil)
	d.Start()

	for i := 0; i < 50; i++ {
		require.NoError(t, d.HandleEvent(context.Background(), admissionEvent(t)))
	}
	d.Stop()

	assert.Equal(t, int32(50), delivered.Load())
}

func TestDispatcherDetachesCancellation(t *testing.T) {
	type key struct{}
	got := make(chan context.Context, 1)

	d := NewDispatcher(HandlerFunc(func(ctx context.Context, event *Event) error {
		got <- ctx
		return nil
	}), DefaultDispatcherConfig(), nil)
	d.Start()
	defer d.Stop()

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "trace"))
	cancel()
	require.NoError(t, d.HandleEvent(ctx, admissionEvent(t)))

	select {
	case c := <-got:
		assert.NoError(t, c.Err(), "delivery must not inherit cancellation")
		assert.Equal(t, "trace", c.Value(key{}))
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	started := make(chan struct{})

	d := NewDispatcher(HandlerFunc(func(ctx context.Context, event *Event) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}), DispatcherConfig{WorkerCount: 1, QueueSize: 1}, nil)
	d.Start()

	// First event occupies the worker, second fills the queue.
	require.NoError(t, d.HandleEvent(context.Background(), admissionEvent(t)))
	<-started
	require.NoError(t, d.HandleEvent(context.Background(), admissionEvent(t)))

	err := d.HandleEvent(context.Background(), admissionEvent(t))
	assert.True(t, errors.Is(err, ErrDispatcherFull))

	close(release)
	d.Stop()
}

func TestDispatcherStop(t *testing.T) {
	var delivered atomic.Int32
	d := NewDispatcher(HandlerFunc(func(ctx context.Context, event *Event) error {
		delivered.Add(1)
		return errors.New("handler failure is only logged")
	}), DefaultDispatcherConfig(), nil)

	// Queued before Start: delivered by Stop.
	require.NoError(t, d.HandleEvent(context.Background(), admissionEvent(t)))
	d.Stop()
	d.Stop()
	d.Start()

	assert.Equal(t, int32(1), delivered.Load())
	assert.ErrorIs(t, d.HandleEvent(context.Background(), admissionEvent(t)), ErrDispatcherClosed)
}
