// Package report renders aggregated evaluation groups into an xlsx workbook,
// one sheet per (city, branch).
package report

import (
	"fmt"
	"regexp"
	"time"

	"missionsuivi/internal/evaluation/aggregate"
	"missionsuivi/internal/evaluation/models"
	dErrors "missionsuivi/pkg/domain-errors"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	EmptySheet    = "Aucune donnée"
	headerRowIdx  = 5
	defaultSheet1 = "Sheet1"
)

var (
	columnHeaders = []any{
		"N°", "Composante évaluée", "Critères / Indicateurs", "Mode de vérification", "Moyenne / 5", "Observations",
	}
	// one per header column; A and B also carry the "Volet:"/value header block
	columnWidths = []float64{25, 40, 40, 35, 12, 30}

	// leading "3-" or "3–" numbering already shown in the N° column
	componentNumbering = regexp.MustCompile(`^\d+[–-]\s*`)
)

// Filename is the download name for a workbook produced at t.
func Filename(t time.Time) string {
	return "evaluations_" + t.Format(time.DateOnly) + ".xlsx"
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the workbook. Rubrics must belong to category; rows follow
// their numero order. The caller closes the returned file.
func (r *Renderer) Render(groups []models.GroupResult, category models.Category, rubrics []models.Rubric, resolver aggregate.LabelResolver) (*excelize.File, error) {
	if !category.Code.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown volet code: "+category.Code.String())
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if len(groups) == 0 {
		if err := renderEmpty(f, category); err != nil {
			_ = f.Close()
			return nil, err
		}
		return f, nil
	}

	taken := make(map[string]struct{}, len(groups))
	for i, g := range groups {
		name := uniqueSheetName(SheetName(category.Code, g.CityName, g.BranchName), taken)
		if i == 0 {
			err = f.SetSheetName(defaultSheet1, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := renderGroup(f, name, g, category, rubrics, resolver, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func renderEmpty(f *excelize.File, category models.Category) error {
	if err := f.SetSheetName(defaultSheet1, EmptySheet); err != nil {
		return fmt.Errorf("rename empty sheet: %w", err)
	}
	if err := f.SetSheetRow(EmptySheet, "A1", &[]any{"Volet:", category.Label}); err != nil {
		return fmt.Errorf("write empty sheet: %w", err)
	}
	if err := f.SetSheetRow(EmptySheet, "A3", &[]any{"Aucune évaluation ne correspond aux filtres."}); err != nil {
		return fmt.Errorf("write empty sheet: %w", err)
	}
	return nil
}

func renderGroup(f *excelize.File, sheet string, g models.GroupResult, category models.Category, rubrics []models.Rubric, resolver aggregate.LabelResolver, headerStyle int) error {
	rows := [][]any{
		{"Volet:", category.Label},
		{"Ville:", g.CityName},
		{"Établissement visité:", g.BranchName},
		{},
		columnHeaders,
	}
	for _, rubric := range rubrics {
		rows = append(rows, rubricRow(rubric, g.MeanFor(rubric.Numero), resolver))
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+1, sheet, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columnHeaders))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRowIdx), fmt.Sprintf("%s%d", lastCol, headerRowIdx), headerStyle); err != nil {
		return fmt.Errorf("style header of %q: %w", sheet, err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set width of %q: %w", sheet, err)
		}
	}
	return nil
}

func rubricRow(rubric models.Rubric, mean *float64, resolver aggregate.LabelResolver) []any {
	component := rubric.Component
	if component == "" {
		component = rubric.Label
	}
	component = componentNumbering.ReplaceAllString(component, "")

	average, appreciation := "", ""
	if mean != nil && *mean > 0 {
		average = FormatAverage(*mean)
		if resolver != nil {
			appreciation = resolver.LabelFor(*mean)
		}
	}
	return []any{rubric.Numero, component, rubric.Criteria, rubric.VerificationMode, average, appreciation}
}

// FormatAverage renders a mean with exactly two decimals, rounding half
// away from zero.
func FormatAverage(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
