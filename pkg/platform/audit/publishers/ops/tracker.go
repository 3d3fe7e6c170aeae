// Package ops provides a best-effort audit tracker for routine activity.
//
// Track never blocks the caller: events go onto a bounded buffer and a single
// worker drains it into the sink. Events are dropped when the buffer is full
// or the circuit breaker is open.
package ops

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "missionsuivi/pkg/platform/audit"
)

const (
	defaultBuffer      = 256
	defaultSinkTimeout = 5 * time.Second
)

type Tracker struct {
	sink    audit.Store
	logger  *slog.Logger
	metrics *Metrics
	breaker *CircuitBreaker

	inbox     chan audit.Event
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

func WithBuffer(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.inbox = make(chan audit.Event, n)
		}
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(t *Tracker) { t.breaker = cb }
}

// New starts the tracker's worker. Call Close to drain and stop it.
func New(sink audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		sink:    sink,
		breaker: NewCircuitBreaker(5, 30*time.Second),
		inbox:   make(chan audit.Event, defaultBuffer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.run()
	return t
}

// Track enqueues an event without blocking.
func (t *Tracker) Track(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ActorID == "" {
		event.ActorID = "system"
	}
	event.Category = audit.CategoryOperations

	if t.logger != nil {
		t.logger.InfoContext(ctx, "audit",
			"category", string(event.Category),
			"action", event.Action,
			"actor_id", event.ActorID,
			"subject", event.Subject,
			"affected", event.Affected,
			"request_id", event.RequestID,
		)
	}

	select {
	case t.inbox <- event:
	default:
		if t.metrics != nil {
			t.metrics.IncDropped("buffer_full")
		}
	}
}

func (t *Tracker) run() {
	defer close(t.done)
	for event := range t.inbox {
		t.deliver(event)
	}
}

func (t *Tracker) deliver(event audit.Event) {
	if !t.breaker.Allow() {
		if t.metrics != nil {
			t.metrics.IncDropped("circuit_open")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSinkTimeout)
	defer cancel()

	if err := t.sink.Append(ctx, event); err != nil {
		open := t.breaker.RecordFailure()
		if t.metrics != nil {
			t.metrics.IncSinkFailures()
			t.metrics.SetCircuitBreakerState(open)
		}
		if t.logger != nil {
			t.logger.Warn("ops audit sink failed", "action", event.Action, "error", err)
		}
		return
	}
	t.breaker.RecordSuccess()
	if t.metrics != nil {
		t.metrics.IncTracked()
		t.metrics.SetCircuitBreakerState(false)
	}
}

// Close drains buffered events and stops the worker.
func (t *Tracker) Close() error {
	t.closeOnce.Do(func() { close(t.inbox) })
	<-t.done
	return nil
}
