package service

import (
	"context"
	"time"

	"missionsuivi/internal/evaluation/aggregate"
	"missionsuivi/internal/evaluation/models"
)

// GetCoverageStats partitions the city's live roster into inspectors who
// submitted for the (branch, period, category) tuple and those who did not.
// An incomplete tuple yields the empty answer.
func (s *Service) GetCoverageStats(ctx context.Context, f models.CoverageFilter) (models.Coverage, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "evaluation.GetCoverageStats")
	defer span.End()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveCoverage(start)
		}
	}()

	if !f.Complete() {
		return aggregate.IncompleteCoverage(), nil
	}

	roster, err := s.refs.Roster(ctx, *f.CityID)
	if err != nil {
		return models.Coverage{}, translateStoreError(err, "failed to load inspectors")
	}

	resolved, bound, err := s.resolveMission(ctx, models.Filter{PeriodID: f.PeriodID})
	if err != nil {
		return models.Coverage{}, err
	}
	if !bound {
		return aggregate.NoneSubmitted(roster), nil
	}

	records, err := s.records.Fetch(ctx, models.Filter{
		MissionID:  resolved.MissionID,
		CityID:     f.CityID,
		BranchID:   f.BranchID,
		CategoryID: f.CategoryID,
	})
	if err != nil {
		return models.Coverage{}, translateStoreError(err, "failed to fetch evaluations")
	}
	return aggregate.Coverage(roster, records), nil
}
