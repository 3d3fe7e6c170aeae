package service

import (
	"context"

	"missionsuivi/internal/evaluation/aggregate"
	"missionsuivi/internal/evaluation/models"

	"golang.org/x/sync/errgroup"
)

// DashboardStats computes means by city, branch and category over the live
// rows matching f.
func (s *Service) DashboardStats(ctx context.Context, f models.Filter) (models.DashboardStats, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.DashboardStats")
	defer span.End()

	if err := f.Validate(); err != nil {
		return models.DashboardStats{}, err
	}
	f.IncludeDeleted = false

	resolved, bound, err := s.resolveMission(ctx, f)
	if err != nil {
		return models.DashboardStats{}, err
	}

	var (
		categories []models.Category
		records    []models.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.refs.Categories(gctx)
		return err
	})
	if bound {
		g.Go(func() error {
			var err error
			records, err = s.records.Fetch(gctx, resolved)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, translateStoreError(err, "failed to load dashboard data")
	}
	return aggregate.Dashboard(records, categories), nil
}
