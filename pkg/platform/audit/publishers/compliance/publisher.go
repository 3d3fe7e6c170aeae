// Package compliance provides a fail-closed audit publisher for destructive
// and corrective actions on evaluation data.
//
// Emit blocks until the store write succeeds. When the context carries a
// transaction the event commits with the change; if the write fails the
// calling operation must fail too.
package compliance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	audit "missionsuivi/pkg/platform/audit"
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var errMissingAction = errors.New("compliance event requires Action")

// Emit synchronously writes a compliance event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.Action == "" {
		return errMissingAction
	}
	if event.ActorID == "" {
		event.ActorID = "system"
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.CategoryCompliance

	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "compliance audit failed",
				"action", event.Action,
				"actor_id", event.ActorID,
				"error", err,
			)
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.ObservePersistDuration(start)
		p.metrics.IncEventsEmitted()
	}
	if p.logger != nil {
		p.logger.InfoContext(ctx, "audit",
			"category", string(event.Category),
			"action", event.Action,
			"actor_id", event.ActorID,
			"subject", event.Subject,
			"affected", event.Affected,
			"request_id", event.RequestID,
		)
	}
	return nil
}
