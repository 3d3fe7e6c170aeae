// Package importer loads the bareme and rubric reference data from the
// synthesis workbook (BAREME, FI, F_QS and F_GAB sheets).
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"missionsuivi/internal/evaluation/models"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/audit"
	"missionsuivi/pkg/platform/sentinel"
)

const ScaleSheet = "BAREME"

type Store interface {
	FindCategoryByCode(ctx context.Context, code id.CategoryCode) (models.Category, error)
	UpsertScale(ctx context.Context, items []models.ScaleItem) (int, error)
	UpsertRubrics(ctx context.Context, categoryID id.CategoryID, rubrics []models.Rubric) (int, error)
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Invalidator drops cached reference data after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type OpsTracker interface {
	Track(ctx context.Context, event audit.Event)
}

type Importer struct {
	store   Store
	tx      TxRunner
	cache   Invalidator
	tracker OpsTracker
	logger  *slog.Logger
}

type Option func(*Importer)

func WithCache(c Invalidator) Option {
	return func(i *Importer) {
		i.cache = c
	}
}

func WithOpsTracker(t OpsTracker) Option {
	return func(i *Importer) {
		i.tracker = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

func New(store Store, tx TxRunner, opts ...Option) *Importer {
	i := &Importer{store: store, tx: tx, logger: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SheetResult reports what happened to one category sheet.
type SheetResult struct {
	Code     id.CategoryCode
	Imported int
	Skipped  []string
	Missing  bool
}

// ImportScale upserts the BAREME sheet and returns how many notes were written.
func (i *Importer) ImportScale(ctx context.Context, wb Workbook) (int, error) {
	rows, err := wb.Rows(ScaleSheet)
	if err != nil {
		if errors.Is(err, ErrSheetNotFound) {
			return 0, dErrors.New(dErrors.CodeValidation, "sheet BAREME not found in workbook")
		}
		return 0, err
	}
	items := ParseScale(rows)
	if len(items) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "no valid bareme rows in sheet BAREME")
	}

	var n int
	err = i.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = i.store.UpsertScale(ctx, items)
		return err
	})
	if err != nil {
		return 0, translate(err, "failed to import bareme")
	}
	i.afterWrite(ctx, "bareme", int64(n))
	return n, nil
}

// ImportRubrics upserts every category sheet present in the workbook. All
// sheets commit together.
func (i *Importer) ImportRubrics(ctx context.Context, wb Workbook) ([]SheetResult, error) {
	results := make([]SheetResult, 0, len(id.KnownCategoryCodes()))
	err := i.tx.RunInTx(ctx, func(ctx context.Context) error {
		results = results[:0]
		for _, code := range id.KnownCategoryCodes() {
			res, err := i.importSheet(ctx, wb, code)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to import rubrics")
	}

	var total int64
	for _, r := range results {
		total += int64(r.Imported)
	}
	i.afterWrite(ctx, "rubriques", total)
	return results, nil
}

func (i *Importer) importSheet(ctx context.Context, wb Workbook, code id.CategoryCode) (SheetResult, error) {
	res := SheetResult{Code: code}
	rows, err := wb.Rows(code.String())
	if errors.Is(err, ErrSheetNotFound) {
		res.Missing = true
		i.logger.WarnContext(ctx, "category sheet not found", "sheet", code.String())
		return res, nil
	}
	if err != nil {
		return res, err
	}

	rubrics, skipped, ok := ParseRubrics(rows)
	if !ok {
		return res, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("sheet %s: composante, critères and mode de vérification headers not found", code))
	}
	res.Skipped = skipped

	category, err := i.store.FindCategoryByCode(ctx, code)
	if err != nil {
		return res, fmt.Errorf("find volet %s: %w", code, err)
	}
	res.Imported, err = i.store.UpsertRubrics(ctx, category.ID, rubrics)
	if err != nil {
		return res, err
	}
	for _, s := range skipped {
		i.logger.WarnContext(ctx, "rubric skipped: numero outside 1..12", "sheet", code.String(), "composante", s)
	}
	return res, nil
}

func (i *Importer) afterWrite(ctx context.Context, subject string, n int64) {
	if i.cache != nil {
		if err := i.cache.Invalidate(ctx); err != nil {
			i.logger.WarnContext(ctx, "reference cache invalidation failed", "error", err)
		}
	}
	if i.tracker != nil {
		i.tracker.Track(ctx, audit.Event{
			Action:   string(audit.EventReferenceDataImported),
			Subject:  subject,
			Affected: n,
		})
	}
	i.logger.InfoContext(ctx, "reference data imported", "subject", subject, "rows", n)
}

func translate(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
