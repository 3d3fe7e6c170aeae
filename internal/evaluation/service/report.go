package service

import (
	"context"
	"fmt"
	"time"

	"missionsuivi/internal/evaluation/aggregate"
	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/scale"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/audit"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Report is a rendered workbook plus the figures it was built from.
type Report struct {
	Workbook *excelize.File
	Category models.Category
	Groups   []models.GroupResult
}

// GenerateReport resolves the filter, aggregates the live rows of one
// category and renders one sheet per (city, branch) group. A period that
// binds to no mission yields the empty workbook.
func (s *Service) GenerateReport(ctx context.Context, f models.Filter) (*Report, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "evaluation.GenerateReport")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.reportTimeout)
	defer cancel()

	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.CategoryID == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "voletId is required")
	}
	f.IncludeDeleted = false

	category, err := s.refs.FindCategory(ctx, *f.CategoryID)
	if err != nil {
		return nil, translateStoreError(err, "Volet non trouvé")
	}
	span.SetAttributes(attribute.String("category", category.Code.String()))

	resolved, bound, err := s.resolveMission(ctx, f)
	if err != nil {
		return nil, err
	}

	var (
		items   []models.ScaleItem
		rubrics []models.Rubric
		records []models.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.cache.Scale(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rubrics, err = s.cache.Rubrics(gctx, category.ID)
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
		span.RecordError(err)
		span.SetStatus(codes.Error, "report inputs")
		return nil, translateStoreError(err, "failed to load report data")
	}
	if len(rubrics) == 0 {
		span.SetStatus(codes.Error, "no rubrics")
		return nil, dErrors.New(dErrors.CodeValidation, "aucune rubrique définie pour le volet "+category.Code.String())
	}

	resolver := scale.NewResolver(items)
	groups := aggregate.Groups(records, rubrics, resolver)

	workbook, err := s.renderer.Render(groups, category, rubrics, resolver)
	if err != nil {
		span.RecordError(err)
		return nil, translateStoreError(err, "failed to render report")
	}
	if err := ctx.Err(); err != nil {
		_ = workbook.Close()
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "report generation timed out")
	}

	sheets := len(workbook.GetSheetList())
	span.SetAttributes(attribute.Int("sheets", sheets), attribute.Int("records", len(records)))
	if s.metrics != nil {
		s.metrics.ObserveReport(start, sheets)
	}
	s.track(ctx, audit.EventReportExported, fmt.Sprintf("volet=%s groups=%d", category.Code, len(groups)), int64(len(records)))
	s.logger.InfoContext(ctx, "report generated",
		"category", category.Code.String(),
		"groups", len(groups),
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Report{Workbook: workbook, Category: category, Groups: groups}, nil
}
