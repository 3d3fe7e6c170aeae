package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/scale"
	id "missionsuivi/pkg/domain"
)

func rubricSet() []models.Rubric {
	return []models.Rubric{
		{ID: 101, CategoryID: 1, Numero: 1, Label: "Accueil"},
		{ID: 102, CategoryID: 1, Numero: 2, Label: "Affichage"},
		{ID: 103, CategoryID: 1, Numero: 3, Label: "Sécurité"},
	}
}

func resolver() *scale.Resolver {
	return scale.NewResolver([]models.ScaleItem{
		{Note: 1, Label: "Insuffisant"}, {Note: 2, Label: "Passable"}, {Note: 3, Label: "Moyen"},
		{Note: 4, Label: "Bien"}, {Note: 5, Label: "Très bien"},
	})
}

func note(city id.CityID, cityName string, branch id.BranchID, branchName string, rubric id.RubricID, n int) models.Record {
	return models.Record{
		MissionID: 1, CityID: city, CityName: cityName, BranchID: branch, BranchName: branchName,
		InspectorID: 5, CategoryID: 1, RubricID: rubric, Note: n,
	}
}

func TestGroupsOverallIsFlattenedMean(t *testing.T) {
	// rubric 1 has notes {5, 5, 5}, rubric 2 has {1}
	records := []models.Record{
		note(1, "Rabat", 10, "Agence Centre", 101, 5),
		note(1, "Rabat", 10, "Agence Centre", 101, 5),
		note(1, "Rabat", 10, "Agence Centre", 101, 5),
		note(1, "Rabat", 10, "Agence Centre", 102, 1),
	}

	groups := Groups(records, rubricSet(), resolver())
	require.Len(t, groups, 1)
	g := groups[0]

	require.NotNil(t, g.MeanFor(1))
	assert.InDelta(t, 5.0, *g.MeanFor(1), 1e-9)
	require.NotNil(t, g.MeanFor(2))
	assert.InDelta(t, 1.0, *g.MeanFor(2), 1e-9)
	assert.Nil(t, g.MeanFor(3), "rubric without notes has no mean")

	// mean of rubric means would be 3.0
	require.NotNil(t, g.Overall)
	assert.InDelta(t, 4.0, *g.Overall, 1e-9)
	assert.Equal(t, "Bien", g.Appreciation)
	assert.Equal(t, 4, g.NoteCount)
}

func TestGroupsOrderingAndSeparation(t *testing.T) {
	records := []models.Record{
		note(1, "Rabat", 11, "Agence Zaër", 101, 3),
		note(2, "Casablanca", 20, "Agence Port", 101, 2),
		note(1, "Rabat", 10, "Agence Agdal", 101, 4),
	}
	groups := Groups(records, rubricSet(), resolver())
	require.Len(t, groups, 3)
	assert.Equal(t, "Casablanca", groups[0].CityName)
	assert.Equal(t, "Agence Agdal", groups[1].BranchName)
	assert.Equal(t, "Agence Zaër", groups[2].BranchName)
}

func TestGroupsIgnoresNotesOutsideRubricSet(t *testing.T) {
	records := []models.Record{
		note(1, "Rabat", 10, "Agence Centre", 999, 1),
		note(1, "Rabat", 10, "Agence Centre", 101, 5),
	}
	groups := Groups(records, rubricSet(), resolver())
	require.Len(t, groups, 1)
	assert.InDelta(t, 5.0, *groups[0].Overall, 1e-9)
}

func TestGroupsEmpty(t *testing.T) {
	assert.Empty(t, Groups(nil, rubricSet(), resolver()))

	groups := Groups([]models.Record{note(1, "Rabat", 10, "Agence Centre", 999, 3)}, rubricSet(), resolver())
	require.Len(t, groups, 1)
	assert.Nil(t, groups[0].Overall)
	assert.Empty(t, groups[0].Appreciation)
}

func TestMean(t *testing.T) {
	assert.Nil(t, Mean(nil))
	assert.InDelta(t, 3.5, *Mean([]int{3, 4}), 1e-9)
}

func inspectors(n int) []models.Inspector {
	out := make([]models.Inspector, n)
	for i := range out {
		out[i] = models.Inspector{ID: id.InspectorID(i + 1), LastName: "Nom", FirstName: string(rune('A' + i)), CityID: 1}
	}
	return out
}

func submission(inspector id.InspectorID, category id.CategoryID, created time.Time) models.Record {
	return models.Record{
		MissionID: 1, CityID: 1, BranchID: 10, InspectorID: inspector, CategoryID: category,
		RubricID: 101, Note: 4, CreatedAt: created, EvaluationDate: created.Truncate(24 * time.Hour),
	}
}

func TestCoverage(t *testing.T) {
	t0 := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("five inspectors two submitted three not", func(t *testing.T) {
		records := []models.Record{
			submission(1, 1, t0),
			submission(1, 1, t0.Add(time.Hour)),
			submission(1, 2, t0.Add(2*time.Hour)),
			submission(3, 1, t0),
			submission(42, 1, t0),
		}
		cov := Coverage(inspectors(5), records)
		assert.Equal(t, 5, cov.Total)
		assert.Equal(t, models.CoverageReported, cov.State)
		require.Len(t, cov.Submitted, 2)
		assert.Len(t, cov.NotSubmitted, 3)

		first := cov.Submitted[0]
		assert.Equal(t, id.InspectorID(1), first.Inspector.ID)
		assert.Equal(t, 2, first.SubmissionCount)
		assert.Equal(t, 2, first.CategoriesEvaluated)
		require.NotNil(t, first.LastSubmission)
		assert.Equal(t, t0.Add(2*time.Hour), *first.LastSubmission)
	})

	t.Run("no inspectors", func(t *testing.T) {
		cov := Coverage(nil, []models.Record{submission(1, 1, t0)})
		assert.Equal(t, models.CoverageNoInspectors, cov.State)
		assert.Zero(t, cov.Total)
	})

	t.Run("none submitted", func(t *testing.T) {
		cov := NoneSubmitted(inspectors(2))
		assert.Equal(t, models.CoverageNoneSubmitted, cov.State)
		assert.Len(t, cov.NotSubmitted, 2)
		assert.Empty(t, cov.Submitted)
	})

	t.Run("incomplete filter", func(t *testing.T) {
		cov := IncompleteCoverage()
		assert.Equal(t, models.CoverageIncompleteFilter, cov.State)
		assert.NotNil(t, cov.Submitted)
	})
}

func TestLatestKeepsNewestPerKey(t *testing.T) {
	t0 := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	a := submission(1, 1, t0)
	a.ID = 1
	b := submission(1, 1, t0.Add(time.Minute))
	b.ID = 2
	c := submission(1, 1, t0.Add(time.Minute))
	c.ID = 3

	latest := Latest([]models.Record{b, a, c})
	require.Len(t, latest, 1)
	assert.Equal(t, id.RecordID(3), latest[0].ID)
}

func TestDashboard(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Code: id.CategoryFI, Label: "Fonctionnement Interne", DisplayOrder: 1},
		{ID: 2, Code: id.CategoryFQS, Label: "Qualité de Service", DisplayOrder: 2},
	}
	records := []models.Record{
		note(1, "Rabat", 10, "Agence Centre", 101, 4),
		note(1, "Rabat", 10, "Agence Centre", 102, 5),
		note(1, "Rabat", 10, "Agence Centre", 103, 5),
		note(2, "Casablanca", 20, "Agence Port", 101, 5),
	}
	records[3].CategoryID = 2

	stats := Dashboard(records, categories)

	require.Len(t, stats.ByCity, 2)
	assert.Equal(t, "Casablanca", stats.ByCity[0].Label)
	assert.InDelta(t, 4.67, *stats.ByCity[1].Mean, 1e-9)
	assert.Equal(t, 1, stats.ByCity[1].Submissions)

	require.Len(t, stats.ByBranch, 2)
	assert.Equal(t, "Agence Port - Casablanca", stats.ByBranch[0].Label)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Fonctionnement Interne", stats.ByCategory[0].Label)

	empty := Dashboard(nil, categories)
	assert.NotNil(t, empty.ByCity)
	assert.Empty(t, empty.ByCategory)
}

func TestRound2(t *testing.T) {
	v := 2.675
	assert.Nil(t, Round2(nil))
	assert.InDelta(t, 2.68, *Round2(&v), 1e-9)
}
