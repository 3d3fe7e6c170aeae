package aggregate

import (
	"missionsuivi/internal/evaluation/models"
	id "missionsuivi/pkg/domain"

	"github.com/samber/lo"
)

// Latest keeps one record per submission key: the one created last. Ties
// on created_at go to the higher id.
func Latest(records []models.Record) []models.Record {
	latest := make(map[models.SubmissionKey]models.Record, len(records))
	order := make([]models.SubmissionKey, 0)
	for _, r := range records {
		key := r.SubmissionKey()
		current, seen := latest[key]
		if !seen {
			order = append(order, key)
			latest[key] = r
			continue
		}
		if r.CreatedAt.After(current.CreatedAt) || (r.CreatedAt.Equal(current.CreatedAt) && r.ID > current.ID) {
			latest[key] = r
		}
	}
	return lo.Map(order, func(k models.SubmissionKey, _ int) models.Record {
		return latest[k]
	})
}

// Coverage partitions the roster into inspectors with at least one live
// submission among records and those without. Records of inspectors outside
// the roster are ignored.
func Coverage(roster []models.Inspector, records []models.Record) models.Coverage {
	cov := models.Coverage{
		Total:        len(roster),
		Submitted:    []models.InspectorCoverage{},
		NotSubmitted: []models.Inspector{},
	}
	if len(roster) == 0 {
		cov.State = models.CoverageNoInspectors
		return cov
	}

	byInspector := lo.GroupBy(Latest(records), func(r models.Record) id.InspectorID {
		return r.InspectorID
	})

	for _, inspector := range roster {
		subs, ok := byInspector[inspector.ID]
		if !ok {
			cov.NotSubmitted = append(cov.NotSubmitted, inspector)
			continue
		}
		ic := models.InspectorCoverage{
			Inspector:       inspector,
			SubmissionCount: len(subs),
			CategoriesEvaluated: len(lo.Uniq(lo.Map(subs, func(r models.Record, _ int) id.CategoryID {
				return r.CategoryID
			}))),
		}
		lastEval := lo.MaxBy(subs, func(a, b models.Record) bool { return a.EvaluationDate.After(b.EvaluationDate) })
		lastSub := lo.MaxBy(subs, func(a, b models.Record) bool { return a.CreatedAt.After(b.CreatedAt) })
		evalDate, createdAt := lastEval.EvaluationDate, lastSub.CreatedAt
		ic.LastEvaluationDate = &evalDate
		ic.LastSubmission = &createdAt
		cov.Submitted = append(cov.Submitted, ic)
	}

	if len(cov.Submitted) == 0 {
		cov.State = models.CoverageNoneSubmitted
	} else {
		cov.State = models.CoverageReported
	}
	return cov
}

// IncompleteCoverage is the answer for a filter missing a dimension.
func IncompleteCoverage() models.Coverage {
	return models.Coverage{
		Submitted:    []models.InspectorCoverage{},
		NotSubmitted: []models.Inspector{},
		State:        models.CoverageIncompleteFilter,
	}
}

// NoneSubmitted lists the whole roster as not submitted, used when the
// period binds to no mission.
func NoneSubmitted(roster []models.Inspector) models.Coverage {
	return Coverage(roster, nil)
}
