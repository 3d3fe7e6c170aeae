package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"missionsuivi/internal/evaluation/softdelete"
	"missionsuivi/internal/evaluation/store"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/audit"
)

func TestParseScaleWithHeaders(t *testing.T) {
	rows := [][]string{
		{"Barème d'évaluation"},
		{"Note", "Libellé"},
		{"5", "Très satisfaisant"},
		{"4", "Satisfaisant"},
		{"x", "ignored"},
		{"7", "out of range"},
		{"3", ""},
		{"1", "Insuffisant"},
	}
	items := ParseScale(rows)
	require.Len(t, items, 3)
	assert.Equal(t, 5, items[0].Note)
	assert.Equal(t, "Très satisfaisant", items[0].Label)
	assert.Equal(t, "Insuffisant", items[2].Label)
}

func TestParseScaleWithoutHeaders(t *testing.T) {
	rows := [][]string{
		{"", "1", "Insuffisant"},
		{"", "2", "Passable"},
	}
	items := ParseScale(rows)
	require.Len(t, items, 2)
	assert.Equal(t, "Passable", items[1].Label)
}

func TestParseRubrics(t *testing.T) {
	rows := [][]string{
		{"N°", "Composante évaluée", "Critères / Indicateurs", "Mode de vérification"},
		{"", "1– Gouvernance interne", "Organigramme", "Entretien"},
		{"", "Tenue de caisse", "Procédures", "Contrôle"},
		{"7", "Affichage réglementaire", "", "Observation"},
		{"", "13- Hors grille", "", ""},
		{"", "", "orphan", ""},
	}
	rubrics, skipped, ok := ParseRubrics(rows)
	require.True(t, ok)
	require.Len(t, rubrics, 3)

	assert.Equal(t, 1, rubrics[0].Numero)
	assert.Equal(t, "Gouvernance interne", rubrics[0].Label)
	assert.Equal(t, "1– Gouvernance interne", rubrics[0].Component)
	assert.Equal(t, "Entretien", rubrics[0].VerificationMode)

	assert.Equal(t, 2, rubrics[1].Numero, "sequence continues after the previous numero")
	assert.Equal(t, 7, rubrics[2].Numero, "leading numeric cell")
	assert.Equal(t, []string{"13- Hors grille"}, skipped)
}

func TestParseRubricsMissingHeaders(t *testing.T) {
	_, _, ok := ParseRubrics([][]string{{"Composante", "Critères"}})
	assert.False(t, ok)
}

type tracked struct {
	events []audit.Event
}

func (t *tracked) Track(_ context.Context, e audit.Event) {
	t.events = append(t.events, e)
}

type invalidations struct{ n int }

func (i *invalidations) Invalidate(context.Context) error {
	i.n++
	return nil
}

func synthesis(t *testing.T, withFI bool) Workbook {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", ScaleSheet))
	require.NoError(t, f.SetSheetRow(ScaleSheet, "A1", &[]any{"Note", "Appréciation"}))
	for i, label := range []string{"Insuffisant", "Passable", "Moyen", "Bien", "Très bien"} {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, f.SetSheetRow(ScaleSheet, cell, &[]any{i + 1, label}))
	}
	if withFI {
		_, err := f.NewSheet("FI")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("FI", "A1", &[]any{"Composante", "Critères", "Mode de vérification"}))
		require.NoError(t, f.SetSheetRow("FI", "A2", &[]any{"1- Gouvernance", "Organigramme", "Entretien"}))
		require.NoError(t, f.SetSheetRow("FI", "A3", &[]any{"2- Caisse", "Procédures", "Contrôle"}))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	wb, err := OpenXLSX(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func newImporter() (*Importer, *store.InMemoryStore, *tracked, *invalidations) {
	st := store.NewInMemoryStore(softdelete.New())
	st.SeedCategories()
	tr := &tracked{}
	inv := &invalidations{}
	return New(st, st, WithOpsTracker(tr), WithCache(inv)), st, tr, inv
}

func TestImportScale(t *testing.T) {
	imp, st, tr, inv := newImporter()
	n, err := imp.ImportScale(context.Background(), synthesis(t, false))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	items, err := st.Scale(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "Bien", items[3].Label)

	assert.Equal(t, 1, inv.n)
	require.Len(t, tr.events, 1)
	assert.Equal(t, string(audit.EventReferenceDataImported), tr.events[0].Action)
}

func TestImportRubrics(t *testing.T) {
	imp, st, _, _ := newImporter()
	results, err := imp.ImportRubrics(context.Background(), synthesis(t, true))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, id.CategoryFI, results[0].Code)
	assert.Equal(t, 2, results[0].Imported)
	assert.True(t, results[1].Missing)

	rubrics, err := st.Rubrics(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rubrics, 2)
	assert.Equal(t, "Caisse", rubrics[1].Label)
}

func TestImportScaleMissingSheet(t *testing.T) {
	imp, _, _, _ := newImporter()
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	wb, err := OpenXLSX(&buf)
	require.NoError(t, err)

	_, err = imp.ImportScale(context.Background(), wb)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
