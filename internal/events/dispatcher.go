package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by Dispatcher.HandleEvent.
var (
	ErrDispatcherClosed = errors.New("event dispatcher is closed")
	ErrDispatcherFull   = errors.New("event dispatcher queue is full")
)

// DispatcherConfig holds configuration options for a Dispatcher.
type DispatcherConfig struct {
	// WorkerCount is the number of goroutines delivering events.
	// If zero or negative, defaults to 1.
	WorkerCount int
	// QueueSize is the number of events buffered before HandleEvent rejects.
	// If zero or negative, defaults to 64.
	QueueSize int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{WorkerCount: 2, QueueSize: 64}
}

type queuedEvent struct {
	ctx   context.Context
	event *Event
}

// Dispatcher delivers events to a handler from a pool of worker goroutines,
// so slow subscribers stay off the request path. It is itself an
// EventHandler and is registered on an emitter like any other handler.
//
// HandleEvent never blocks: when the queue is full the event is dropped and
// ErrDispatcherFull is returned.
type Dispatcher struct {
	next   EventHandler
	queue  chan queuedEvent
	logger *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	workers int
	wg      sync.WaitGroup
}

// Ensure Dispatcher implements EventHandler interface
var _ EventHandler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher in front of next. Call Start before
// events are emitted and Stop on shutdown.
func NewDispatcher(next EventHandler, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}

	return &Dispatcher{
		next:    next,
		queue:   make(chan queuedEvent, config.QueueSize),
		logger:  logger.With(slog.String("component", "event_dispatcher")),
		workers: config.WorkerCount,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	d.logger.Info("starting event dispatcher", "worker_count", d.workers, "queue_cap", cap(d.queue))
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
}

// HandleEvent queues event for asynchronous delivery. The event keeps the
// values of ctx (such as the request logger) but not its cancellation.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		d.logger.Warn("dropping event, queue full",
			"event_id", event.ID,
			"event_type", event.Type,
			"queue_cap", cap(d.queue))
		return fmt.Errorf("%w: capacity %d reached", ErrDispatcherFull, cap(d.queue))
	}
}

// Stop rejects new events, waits for queued ones to be delivered, and
// returns once every worker has exited. It is safe to call more than once.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		// Drain inline so nothing queued before Start is lost.
		for q := range d.queue {
			d.deliver(q)
		}
		return
	}

	d.wg.Wait()
	d.logger.Info("event dispatcher stopped")
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for q := range d.queue {
		d.deliver(q)
	}
	d.logger.Debug("event worker exited", "worker_id", id)
}

func (d *Dispatcher) deliver(q queuedEvent) {
	if err := d.next.HandleEvent(q.ctx, q.event); err != nil {
		d.logger.Error("async event handler failed",
			"error", err,
			"event_id", q.event.ID,
			"event_type", q.event.Type)
	}
}
