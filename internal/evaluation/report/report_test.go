package report

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/scale"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
)

func TestSheetName(t *testing.T) {
	tests := []struct {
		name   string
		code   id.CategoryCode
		city   string
		branch string
		want   string
	}{
		{"short", id.CategoryFI, "Rabat", "Agdal", "Moy_FI_RABA_Agdal"},
		{"quality prefix", id.CategoryFQS, "Fès", "Centre", "Moy_QS_FÈS_Centre"},
		{"gab prefix", id.CategoryFGAB, "Casablanca", "Port", "Moy_GAB_CASA_Port"},
		{"cut at limit", id.CategoryFI, "Marrakech", "Agence Principale Avenue Mohammed V", "Moy_FI_MARR_Agence Principale A"},
		{"forbidden characters", id.CategoryFI, "Rabat", "Agence 2/3 [nord]", "Moy_FI_RABA_Agence 2_3 _nord_"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SheetName(tc.code, tc.city, tc.branch)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxSheetNameLength)
		})
	}
}

func TestSheetNameLengthBound(t *testing.T) {
	long := strings.Repeat("é", 80)
	for _, code := range id.KnownCategoryCodes() {
		name := SheetName(code, long, long)
		assert.Equal(t, MaxSheetNameLength, utf8.RuneCountInString(name))
		assert.True(t, utf8.ValidString(name))
	}
}

func TestSheetNameCollides(t *testing.T) {
	a := SheetName(id.CategoryFI, "Marrakech", "Agence Principale Avenue Mohammed V")
	b := SheetName(id.CategoryFI, "Marrakech", "Agence Principale Avenue Hassan II")
	assert.Equal(t, a, b)
}

func TestUniqueSheetName(t *testing.T) {
	taken := map[string]struct{}{}
	base := SheetName(id.CategoryFI, "Marrakech", "Agence Principale Avenue Mohammed V")

	assert.Equal(t, base, uniqueSheetName(base, taken))
	second := uniqueSheetName(base, taken)
	assert.True(t, strings.HasSuffix(second, "~2"))
	assert.Equal(t, MaxSheetNameLength, utf8.RuneCountInString(second))
	assert.True(t, strings.HasSuffix(uniqueSheetName(strings.ToUpper(base), taken), "~3"))
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "4.00", FormatAverage(4))
	assert.Equal(t, "3.67", FormatAverage(11.0/3.0))
	assert.Equal(t, "2.13", FormatAverage(2.125))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "evaluations_2024-03-05.xlsx", Filename(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
}

func fixtures() (models.Category, []models.Rubric, *scale.Resolver) {
	category := models.Category{ID: 1, Code: id.CategoryFI, Label: "Fonctionnement Interne", DisplayOrder: 1}
	rubrics := []models.Rubric{
		{ID: 101, CategoryID: 1, Numero: 1, Label: "Accueil", Component: "1- Accueil de la clientèle", Criteria: "Délai d'attente", VerificationMode: "Observation"},
		{ID: 102, CategoryID: 1, Numero: 2, Label: "Affichage"},
	}
	resolver := scale.NewResolver([]models.ScaleItem{{Note: 3, Label: "Moyen"}, {Note: 4, Label: "Bien"}})
	return category, rubrics, resolver
}

func TestRender(t *testing.T) {
	category, rubrics, resolver := fixtures()
	mean := 3.5
	groups := []models.GroupResult{
		{CityID: 1, CityName: "Marrakech", BranchID: 1, BranchName: "Agence Principale Avenue Mohammed V",
			RubricMeans: map[int]*float64{1: &mean, 2: nil}, Overall: &mean},
		{CityID: 1, CityName: "Marrakech", BranchID: 2, BranchName: "Agence Principale Avenue Hassan II",
			RubricMeans: map[int]*float64{1: nil, 2: nil}},
	}

	f, err := NewRenderer().Render(groups, category, rubrics, resolver)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 2)
	assert.NotEqual(t, sheets[0], sheets[1])
	for _, s := range sheets {
		assert.LessOrEqual(t, utf8.RuneCountInString(s), MaxSheetNameLength)
	}

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	first := sheets[0]
	assert.Equal(t, "Volet:", cell(first, "A1"))
	assert.Equal(t, "Fonctionnement Interne", cell(first, "B1"))
	assert.Equal(t, "Marrakech", cell(first, "B2"))
	assert.Equal(t, "Établissement visité:", cell(first, "A3"))
	assert.Equal(t, "", cell(first, "A4"))
	assert.Equal(t, "Moyenne / 5", cell(first, "E5"))

	assert.Equal(t, "1", cell(first, "A6"))
	assert.Equal(t, "Accueil de la clientèle", cell(first, "B6"))
	assert.Equal(t, "3.50", cell(first, "E6"))
	assert.Equal(t, "Bien", cell(first, "F6"))

	assert.Equal(t, "Affichage", cell(first, "B7"))
	assert.Equal(t, "", cell(first, "E7"))
	assert.Equal(t, "", cell(first, "F7"))

	require.Len(t, columnWidths, len(columnHeaders))
	for col, want := range map[string]float64{"A": 25, "B": 40, "C": 40, "D": 35, "E": 12, "F": 30} {
		width, err := f.GetColWidth(first, col)
		require.NoError(t, err)
		assert.Equal(t, want, width, "column %s", col)
	}
	defaultWidth, err := excelize.NewFile().GetColWidth("Sheet1", "G")
	require.NoError(t, err)
	width, err := f.GetColWidth(first, "G")
	require.NoError(t, err)
	assert.Equal(t, defaultWidth, width)
}

func TestSheetNameTrailingApostrophe(t *testing.T) {
	// "Moy_FI_RABA_Agence du Portus d'" is exactly 31 runes before trimming
	name := SheetName(id.CategoryFI, "Rabat", "Agence du Portus d'Xavier")
	assert.Equal(t, "Moy_FI_RABA_Agence du Portus d", name)
	assert.False(t, strings.HasSuffix(name, "'"))

	// the "~2" suffix cut lands right after the apostrophe
	taken := map[string]struct{}{}
	base := SheetName(id.CategoryFI, "Rabat", "Agence du Port d'Ab")
	require.Equal(t, MaxSheetNameLength, utf8.RuneCountInString(base))
	assert.Equal(t, base, uniqueSheetName(base, taken))
	assert.Equal(t, "Moy_FI_RABA_Agence du Port d~2", uniqueSheetName(base, taken))

	category, rubrics, resolver := fixtures()
	mean := 4.0
	groups := []models.GroupResult{
		{CityID: 1, CityName: "Rabat", BranchID: 1, BranchName: "Agence du Portus d'Xavier",
			RubricMeans: map[int]*float64{1: &mean}, Overall: &mean},
		{CityID: 1, CityName: "Rabat", BranchID: 2, BranchName: "Agence du Portus d'Yacoub",
			RubricMeans: map[int]*float64{1: &mean}, Overall: &mean},
	}
	f, err := NewRenderer().Render(groups, category, rubrics, resolver)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Moy_FI_RABA_Agence du Portus d", "Moy_FI_RABA_Agence du Portus ~2"}, f.GetSheetList())
}

func TestRenderEmpty(t *testing.T) {
	category, rubrics, resolver := fixtures()
	f, err := NewRenderer().Render(nil, category, rubrics, resolver)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{EmptySheet}, f.GetSheetList())
}

func TestRenderUnknownCategory(t *testing.T) {
	_, rubrics, resolver := fixtures()
	_, err := NewRenderer().Render(nil, models.Category{Code: "F_XX"}, rubrics, resolver)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
