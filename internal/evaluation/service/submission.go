package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"missionsuivi/internal/evaluation/binder"
	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/softdelete"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/audit"
	"missionsuivi/pkg/requestcontext"

	"github.com/samber/lo"
)

// Submit stores one batch of rubric notes for a submission tuple. With
// Replace set, the tuple's live rows are removed first in the same
// transaction: soft-deleted when the table supports it, hard-deleted
// otherwise.
func (s *Service) Submit(ctx context.Context, sub models.Submission) error {
	ctx, span := s.tracer.Start(ctx, "evaluation.Submit")
	defer span.End()

	missionID, err := s.submissionMission(ctx, sub)
	if err != nil {
		return err
	}

	branch, err := s.refs.FindBranch(ctx, sub.BranchID)
	if err != nil {
		return translateStoreError(err, "Établissement non trouvé")
	}
	if branch.CityID != sub.CityID {
		return dErrors.New(dErrors.CodeValidation, "l'établissement n'appartient pas à la ville")
	}
	if _, err := s.refs.FindInspector(ctx, sub.InspectorID); err != nil {
		return translateStoreError(err, "Contrôleur non trouvé")
	}
	if _, err := s.refs.FindCategory(ctx, sub.CategoryID); err != nil {
		return translateStoreError(err, "Volet non trouvé")
	}
	rubrics, err := s.cache.Rubrics(ctx, sub.CategoryID)
	if err != nil {
		return translateStoreError(err, "failed to load rubrics")
	}
	known := lo.SliceToMap(rubrics, func(r models.Rubric) (id.RubricID, struct{}) {
		return r.ID, struct{}{}
	})
	for _, n := range sub.Notes {
		if _, ok := known[id.RubricID(n.RubricID)]; !ok {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("rubrique %d n'appartient pas au volet", n.RubricID))
		}
	}

	key := sub.Key(missionID)
	evalDate := requestcontext.Now(ctx)
	records := lo.Map(sub.Notes, func(n models.RubricNote, _ int) models.Record {
		return models.Record{
			MissionID:      key.MissionID,
			CityID:         key.CityID,
			BranchID:       key.BranchID,
			InspectorID:    key.InspectorID,
			CategoryID:     key.CategoryID,
			RubricID:       id.RubricID(n.RubricID),
			Note:           n.Note,
			Comment:        lo.FromPtr(n.Comment),
			EvaluationDate: evalDate,
		}
	})
	tuple := models.Filter{
		MissionID:   &key.MissionID,
		CityID:      &key.CityID,
		BranchID:    &key.BranchID,
		InspectorID: &key.InspectorID,
		CategoryID:  &key.CategoryID,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if sub.Replace {
			var removed int64
			var err error
			if s.guard.Supports(softdelete.TableEvaluation) {
				removed, err = s.records.SoftDelete(ctx, tuple)
			} else {
				removed, err = s.records.HardDelete(ctx, tuple)
			}
			if err != nil {
				return err
			}
			if removed > 0 {
				if err := s.emit(ctx, audit.EventEvaluationReplaced, describeFilter(tuple, false), removed); err != nil {
					return err
				}
			}
		}
		return s.records.Insert(ctx, records)
	})
	if err != nil {
		return translateStoreError(err, "failed to save evaluation")
	}

	if s.metrics != nil {
		s.metrics.IncSubmission(sub.Replace)
	}
	s.track(ctx, audit.EventEvaluationSubmitted, describeFilter(tuple, false), int64(len(records)))
	s.logger.InfoContext(ctx, "evaluation submitted",
		"mission_id", key.MissionID.String(),
		"branch_id", key.BranchID.String(),
		"inspector_id", key.InspectorID.String(),
		"category_id", key.CategoryID.String(),
		"rubrics", len(records),
		"replace", sub.Replace,
	)
	return nil
}

func (s *Service) submissionMission(ctx context.Context, sub models.Submission) (id.MissionID, error) {
	if sub.MissionID != nil {
		return *sub.MissionID, nil
	}
	if sub.PeriodID == nil {
		return 0, dErrors.New(dErrors.CodeValidation, "exactly one of missionId or periodeId is required")
	}
	missionID, err := s.binder.Resolve(ctx, *sub.PeriodID)
	switch {
	case errors.Is(err, binder.ErrPeriodNotFound):
		return 0, dErrors.New(dErrors.CodeNotFound, "Période non trouvée")
	case errors.Is(err, binder.ErrNoMatchingMission):
		return 0, dErrors.New(dErrors.CodeNotFound, "Aucune mission ne correspond à cette période")
	case err != nil:
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve period")
	}
	return missionID, nil
}

// CheckSubmission reports whether the tuple already has live notes, and
// describes the latest submission when it does.
func (s *Service) CheckSubmission(ctx context.Context, t models.SubmissionFilter) (models.SubmissionCheck, error) {
	f, bound, err := s.resolveTuple(ctx, t)
	if err != nil || !bound {
		return models.SubmissionCheck{}, err
	}
	records, err := s.records.Fetch(ctx, f)
	if err != nil {
		return models.SubmissionCheck{}, translateStoreError(err, "failed to fetch evaluations")
	}
	if len(records) == 0 {
		return models.SubmissionCheck{}, nil
	}

	latest := latestRecord(records)
	inspector, err := s.refs.FindInspector(ctx, t.InspectorID)
	if err != nil {
		return models.SubmissionCheck{}, translateStoreError(err, "Contrôleur non trouvé")
	}
	return models.SubmissionCheck{
		Exists:         true,
		EvaluationDate: latest.EvaluationDate,
		CreatedAt:      latest.CreatedAt,
		InspectorName:  inspector.FullName(),
		RubricCount: len(lo.Uniq(lo.Map(records, func(r models.Record, _ int) id.RubricID {
			return r.RubricID
		}))),
	}, nil
}

// SubmissionDetail returns the notes of the latest submission of a tuple,
// ordered by rubric numero, with the labels of every dimension.
func (s *Service) SubmissionDetail(ctx context.Context, t models.SubmissionFilter) (models.SubmissionDetail, error) {
	f, bound, err := s.resolveTuple(ctx, t)
	if err != nil || !bound {
		return models.SubmissionDetail{}, err
	}
	records, err := s.records.Fetch(ctx, f)
	if err != nil {
		return models.SubmissionDetail{}, translateStoreError(err, "failed to fetch evaluations")
	}
	if len(records) == 0 {
		return models.SubmissionDetail{}, nil
	}

	latest := latestRecord(records)
	batch := lo.Filter(records, func(r models.Record, _ int) bool {
		return r.CreatedAt.Equal(latest.CreatedAt)
	})

	detail := models.SubmissionDetail{
		Found:          true,
		CityName:       latest.CityName,
		BranchName:     latest.BranchName,
		EvaluationDate: latest.EvaluationDate,
		SubmittedAt:    latest.CreatedAt,
	}
	inspector, err := s.refs.FindInspector(ctx, t.InspectorID)
	if err != nil {
		return models.SubmissionDetail{}, translateStoreError(err, "Contrôleur non trouvé")
	}
	detail.InspectorName = inspector.FullName()
	category, err := s.refs.FindCategory(ctx, t.CategoryID)
	if err != nil {
		return models.SubmissionDetail{}, translateStoreError(err, "Volet non trouvé")
	}
	detail.CategoryLabel = category.Label
	period, err := s.refs.FindPeriod(ctx, t.PeriodID)
	if err != nil {
		return models.SubmissionDetail{}, translateStoreError(err, "Période non trouvée")
	}
	detail.PeriodLabel = period.Label

	rubrics, err := s.cache.Rubrics(ctx, t.CategoryID)
	if err != nil {
		return models.SubmissionDetail{}, translateStoreError(err, "failed to load rubrics")
	}
	byID := lo.KeyBy(rubrics, func(r models.Rubric) id.RubricID { return r.ID })
	for _, r := range batch {
		rubric, ok := byID[r.RubricID]
		if !ok {
			rubric = models.Rubric{ID: r.RubricID, CategoryID: r.CategoryID}
		}
		detail.Lines = append(detail.Lines, models.DetailLine{
			Rubric:         rubric,
			Note:           r.Note,
			Comment:        r.Comment,
			EvaluationDate: r.EvaluationDate,
			CreatedAt:      r.CreatedAt,
		})
	}
	sort.SliceStable(detail.Lines, func(i, j int) bool {
		return detail.Lines[i].Rubric.Numero < detail.Lines[j].Rubric.Numero
	})
	return detail, nil
}

func latestRecord(records []models.Record) models.Record {
	return lo.MaxBy(records, func(a, b models.Record) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
