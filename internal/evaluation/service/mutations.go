package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/softdelete"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/audit"
	"missionsuivi/pkg/platform/sentinel"
)

// DeleteEvaluations soft-deletes every live record matching f. all=true
// ignores the filter and targets the whole table. Returns the number of rows
// newly marked deleted; repeating the call returns 0.
func (s *Service) DeleteEvaluations(ctx context.Context, f models.Filter, all bool) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.DeleteEvaluations")
	defer span.End()

	if err := s.requireSoftDelete(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	if all {
		f = models.Filter{}
	} else {
		if err := f.Validate(); err != nil {
			return 0, err
		}
		if f.IsEmpty() {
			return 0, dErrors.New(dErrors.CodeValidation, "at least one filter or deleteAll=true is required")
		}
	}
	f.IncludeDeleted = false

	resolved, bound, err := s.resolveMission(ctx, f)
	if err != nil {
		return 0, err
	}
	if !bound {
		return 0, nil
	}

	var deleted int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.records.SoftDelete(ctx, resolved)
		if err != nil {
			return err
		}
		deleted = n
		if n == 0 {
			return nil
		}
		return s.emit(ctx, audit.EventEvaluationsDeleted, describeFilter(resolved, all), n)
	})
	if err != nil {
		return 0, translateStoreError(err, "failed to delete evaluations")
	}

	if s.metrics != nil {
		s.metrics.AddDeleted(deleted)
	}
	s.logger.InfoContext(ctx, "evaluations soft-deleted", "deleted", deleted, "all", all)
	return deleted, nil
}

// RestoreTarget selects what RestoreEvaluations brings back. Exactly one of
// ID, IDs or All is set.
type RestoreTarget struct {
	ID  *id.RecordID
	IDs []id.RecordID
	All bool
}

func (t RestoreTarget) validate() error {
	set := 0
	if t.ID != nil {
		set++
	}
	if len(t.IDs) > 0 {
		set++
	}
	if t.All {
		set++
	}
	if set != 1 {
		return dErrors.New(dErrors.CodeValidation, "exactly one of id, ids or restoreAll is required")
	}
	return nil
}

// RestoreEvaluations clears deleted_at on the targeted rows. A single id or
// an id list with nothing currently deleted is a NotFound; restoring all with
// nothing deleted returns 0.
func (s *Service) RestoreEvaluations(ctx context.Context, t RestoreTarget) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.RestoreEvaluations")
	defer span.End()

	if err := t.validate(); err != nil {
		return 0, err
	}
	if err := s.requireSoftDelete(softdelete.TableEvaluation); err != nil {
		return 0, err
	}

	var restored int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var (
			n       int64
			err     error
			action  = audit.EventEvaluationRestored
			subject string
		)
		switch {
		case t.ID != nil:
			n, err = s.records.Restore(ctx, *t.ID)
			subject = "id=" + t.ID.String()
		case len(t.IDs) > 0:
			n, err = s.records.RestoreMany(ctx, t.IDs)
			subject = fmt.Sprintf("ids=%d", len(t.IDs))
		default:
			n, err = s.records.RestoreAll(ctx)
			action = audit.EventEvaluationsRestored
			subject = "all"
		}
		if err != nil {
			return err
		}
		restored = n
		if n == 0 {
			return nil
		}
		return s.emit(ctx, action, subject, n)
	})
	if err != nil {
		return 0, restoreError(err, "Évaluation non trouvée ou non supprimée")
	}

	if s.metrics != nil {
		s.metrics.AddRestored(restored)
	}
	s.logger.InfoContext(ctx, "evaluations restored", "restored", restored)
	return restored, nil
}

// DeleteReference soft-deletes one row of a reference list.
func (s *Service) DeleteReference(ctx context.Context, entity models.ReferenceEntity, rowID int64) error {
	if err := s.requireSoftDelete(entity.Table()); err != nil {
		return err
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.refs.SoftDeleteEntity(ctx, entity, rowID); err != nil {
			return err
		}
		return s.emit(ctx, audit.EventReferenceDeleted, fmt.Sprintf("%s=%d", entity, rowID), 1)
	})
	if err != nil {
		return translateStoreError(err, "Élément non trouvé")
	}
	s.logger.InfoContext(ctx, "reference soft-deleted", "entity", string(entity), "id", rowID)
	return nil
}

// RestoreReference brings back a soft-deleted reference row.
func (s *Service) RestoreReference(ctx context.Context, entity models.ReferenceEntity, rowID int64) error {
	if err := s.requireSoftDelete(entity.Table()); err != nil {
		return err
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.refs.RestoreEntity(ctx, entity, rowID); err != nil {
			return err
		}
		return s.emit(ctx, audit.EventReferenceRestored, fmt.Sprintf("%s=%d", entity, rowID), 1)
	})
	if err != nil {
		return restoreError(err, "Élément non trouvé ou non supprimé")
	}
	s.logger.InfoContext(ctx, "reference restored", "entity", string(entity), "id", rowID)
	return nil
}

func restoreError(err error, notFound string) error {
	if errors.Is(err, sentinel.ErrNothingToRestore) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, notFound)
	}
	return translateStoreError(err, "failed to restore")
}

func describeFilter(f models.Filter, all bool) string {
	if all {
		return "all"
	}
	var parts []string
	if f.MissionID != nil {
		parts = append(parts, "mission="+f.MissionID.String())
	}
	if f.CityID != nil {
		parts = append(parts, "ville="+f.CityID.String())
	}
	if f.BranchID != nil {
		parts = append(parts, "etab="+f.BranchID.String())
	}
	if f.InspectorID != nil {
		parts = append(parts, "controleur="+f.InspectorID.String())
	}
	if f.CategoryID != nil {
		parts = append(parts, "volet="+f.CategoryID.String())
	}
	return strings.Join(parts, " ")
}
