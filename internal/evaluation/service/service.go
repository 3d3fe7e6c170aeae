// Package service orchestrates the evaluation engine: filter resolution,
// store reads, aggregation, rendering, and the transactional mutations with
// their audit trail.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"missionsuivi/internal/evaluation/aggregate"
	"missionsuivi/internal/evaluation/binder"
	"missionsuivi/internal/evaluation/metrics"
	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/softdelete"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/audit"
	"missionsuivi/pkg/platform/sentinel"
	"missionsuivi/pkg/requestcontext"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type RecordStore interface {
	Fetch(ctx context.Context, f models.Filter) ([]models.Record, error)
	SoftDelete(ctx context.Context, f models.Filter) (int64, error)
	HardDelete(ctx context.Context, f models.Filter) (int64, error)
	Restore(ctx context.Context, recordID id.RecordID) (int64, error)
	RestoreMany(ctx context.Context, ids []id.RecordID) (int64, error)
	RestoreAll(ctx context.Context) (int64, error)
	Insert(ctx context.Context, records []models.Record) error
}

type ReferenceStore interface {
	Categories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, categoryID id.CategoryID) (models.Category, error)
	FindCity(ctx context.Context, cityID id.CityID) (models.City, error)
	FindBranch(ctx context.Context, branchID id.BranchID) (models.Branch, error)
	FindInspector(ctx context.Context, inspectorID id.InspectorID) (models.Inspector, error)
	FindPeriod(ctx context.Context, periodID id.PeriodID) (models.Period, error)
	Roster(ctx context.Context, cityID id.CityID) ([]models.Inspector, error)
	SoftDeleteEntity(ctx context.Context, entity models.ReferenceEntity, rowID int64) error
	RestoreEntity(ctx context.Context, entity models.ReferenceEntity, rowID int64) error
}

// ReferenceCache serves the bareme and rubric sets.
type ReferenceCache interface {
	Scale(ctx context.Context) ([]models.ScaleItem, error)
	Rubrics(ctx context.Context, categoryID id.CategoryID) ([]models.Rubric, error)
}

type PeriodBinder interface {
	Resolve(ctx context.Context, periodID id.PeriodID) (id.MissionID, error)
}

// TxRunner runs fn in one serializable transaction carried by ctx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditPublisher writes compliance events. A failure aborts the mutation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// OpsTracker records operational events on a best-effort basis.
type OpsTracker interface {
	Track(ctx context.Context, event audit.Event)
}

type ReportRenderer interface {
	Render(groups []models.GroupResult, category models.Category, rubrics []models.Rubric, resolver aggregate.LabelResolver) (*excelize.File, error)
}

const defaultReportTimeout = 30 * time.Second

type Service struct {
	records       RecordStore
	refs          ReferenceStore
	cache         ReferenceCache
	binder        PeriodBinder
	tx            TxRunner
	guard         *softdelete.Guard
	renderer      ReportRenderer
	auditor       AuditPublisher
	tracker       OpsTracker
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	reportTimeout time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithOpsTracker(t OpsTracker) Option {
	return func(s *Service) {
		s.tracker = t
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithReportTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reportTimeout = d
		}
	}
}

// Deps groups the required collaborators.
type Deps struct {
	Records  RecordStore
	Refs     ReferenceStore
	Cache    ReferenceCache
	Binder   PeriodBinder
	Tx       TxRunner
	Guard    *softdelete.Guard
	Renderer ReportRenderer
}

func New(deps Deps, opts ...Option) *Service {
	s := &Service{
		records:       deps.Records,
		refs:          deps.Refs,
		cache:         deps.Cache,
		binder:        deps.Binder,
		tx:            deps.Tx,
		guard:         deps.Guard,
		renderer:      deps.Renderer,
		logger:        slog.Default(),
		tracer:        otel.Tracer("missionsuivi/evaluation"),
		reportTimeout: defaultReportTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveMission replaces a period filter with its bound mission. bound is
// false when the period matches no mission; callers answer with an empty
// result.
func (s *Service) resolveMission(ctx context.Context, f models.Filter) (resolved models.Filter, bound bool, err error) {
	if f.PeriodID == nil {
		return f, true, nil
	}
	missionID, err := s.binder.Resolve(ctx, *f.PeriodID)
	switch {
	case errors.Is(err, binder.ErrNoMatchingMission), errors.Is(err, binder.ErrPeriodNotFound):
		return f, false, nil
	case err != nil:
		return f, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve period")
	}
	f.PeriodID = nil
	f.MissionID = &missionID
	return f, true, nil
}

// resolveTuple binds the period of an exact submission tuple. A missing
// period is NotFound; a period without a mission gives bound=false.
func (s *Service) resolveTuple(ctx context.Context, t models.SubmissionFilter) (models.Filter, bool, error) {
	if err := t.Validate(); err != nil {
		return models.Filter{}, false, err
	}
	missionID, err := s.binder.Resolve(ctx, t.PeriodID)
	switch {
	case errors.Is(err, binder.ErrPeriodNotFound):
		return models.Filter{}, false, dErrors.New(dErrors.CodeNotFound, "Période non trouvée")
	case errors.Is(err, binder.ErrNoMatchingMission):
		return models.Filter{}, false, nil
	case err != nil:
		return models.Filter{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve period")
	}
	return t.ToFilter(missionID), true, nil
}

func (s *Service) event(ctx context.Context, action audit.AuditEvent, subject string, affected int64) audit.Event {
	return audit.Event{
		Action:    string(action),
		ActorID:   requestcontext.ActorID(ctx),
		Subject:   subject,
		Affected:  affected,
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, subject string, affected int64) error {
	if s.auditor == nil {
		return nil
	}
	if err := s.auditor.Emit(ctx, s.event(ctx, action, subject, affected)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (s *Service) track(ctx context.Context, action audit.AuditEvent, subject string, affected int64) {
	if s.tracker != nil {
		s.tracker.Track(ctx, s.event(ctx, action, subject, affected))
	}
}

// translateStoreError maps store facts onto domain error codes. Errors that
// already carry a code pass through.
func translateStoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	case softdelete.IsCapabilityError(err), errors.Is(err, sentinel.ErrUnsupported):
		return dErrors.Wrap(err, dErrors.CodeUnsupported, err.Error())
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrNothingToRestore):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func (s *Service) requireSoftDelete(table string) error {
	if err := s.guard.Require(table); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnsupported, err.Error())
	}
	return nil
}
