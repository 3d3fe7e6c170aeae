// Package binder resolves a city-scoped period to the global mission that
// shares its exact date range.
package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"missionsuivi/internal/evaluation/models"
	id "missionsuivi/pkg/domain"
	"missionsuivi/pkg/platform/sentinel"
)

var (
	ErrPeriodNotFound    = errors.New("period not found")
	ErrNoMatchingMission = errors.New("no mission matches period dates")
)

type Store interface {
	// FindPeriod returns sentinel.ErrNotFound for absent or deleted periods.
	FindPeriod(ctx context.Context, periodID id.PeriodID) (models.Period, error)
	// MissionsByRange lists live missions with exactly these dates, ordered by id.
	MissionsByRange(ctx context.Context, start, end time.Time) ([]models.Mission, error)
}

type Binder struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Binder)

// WithLogger reports missions tied on the same range.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

func New(store Store, opts ...Option) *Binder {
	b := &Binder{store: store}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Resolve returns the mission bound to the period. When several missions
// share the range the lowest id wins.
func (b *Binder) Resolve(ctx context.Context, periodID id.PeriodID) (id.MissionID, error) {
	period, err := b.store.FindPeriod(ctx, periodID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, ErrPeriodNotFound
		}
		return 0, fmt.Errorf("find period: %w", err)
	}
	missions, err := b.store.MissionsByRange(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return 0, fmt.Errorf("find missions by range: %w", err)
	}
	matching := lo.Filter(missions, func(m models.Mission, _ int) bool {
		return models.SameRange(m.StartDate, m.EndDate, period.StartDate, period.EndDate)
	})
	if len(matching) == 0 {
		return 0, ErrNoMatchingMission
	}
	best := lo.MinBy(matching, func(a, b models.Mission) bool { return a.ID < b.ID })
	if len(matching) > 1 && b.logger != nil {
		b.logger.WarnContext(ctx, "several missions share the period range",
			"period_id", periodID,
			"mission_ids", lo.Map(matching, func(m models.Mission, _ int) id.MissionID { return m.ID }),
			"chosen", best.ID,
		)
	}
	return best.ID, nil
}
