// Package aggregate reduces evaluation records into per-branch report groups,
// inspector coverage and dashboard statistics. Every function is pure: empty
// input yields an empty result, never an error.
package aggregate

import (
	"sort"

	"missionsuivi/internal/evaluation/models"
	id "missionsuivi/pkg/domain"

	"github.com/samber/lo"
)

// LabelResolver maps an average note to its qualitative label.
type LabelResolver interface {
	LabelFor(avg float64) string
}

type groupKey struct {
	city   id.CityID
	branch id.BranchID
}

// Groups builds one GroupResult per (city, branch). Rubric means are keyed
// by numero. Overall is the mean of every note of the group that belongs to
// the rubric set, so rubrics with more notes weigh more.
func Groups(records []models.Record, rubrics []models.Rubric, resolver LabelResolver) []models.GroupResult {
	if len(records) == 0 {
		return []models.GroupResult{}
	}
	numeroByRubric := lo.SliceToMap(rubrics, func(r models.Rubric) (id.RubricID, int) {
		return r.ID, r.Numero
	})

	byGroup := lo.GroupBy(records, func(r models.Record) groupKey {
		return groupKey{city: r.CityID, branch: r.BranchID}
	})

	results := make([]models.GroupResult, 0, len(byGroup))
	for key, group := range byGroup {
		notesByNumero := make(map[int][]int, len(rubrics))
		var all []int
		for _, r := range group {
			numero, ok := numeroByRubric[r.RubricID]
			if !ok {
				continue
			}
			notesByNumero[numero] = append(notesByNumero[numero], r.Note)
			all = append(all, r.Note)
		}

		means := make(map[int]*float64, len(rubrics))
		for _, rubric := range rubrics {
			means[rubric.Numero] = Mean(notesByNumero[rubric.Numero])
		}

		result := models.GroupResult{
			CityID:      key.city,
			CityName:    group[0].CityName,
			BranchID:    key.branch,
			BranchName:  group[0].BranchName,
			RubricMeans: means,
			Overall:     Mean(all),
			NoteCount:   len(all),
		}
		if result.Overall != nil && *result.Overall > 0 && resolver != nil {
			result.Appreciation = resolver.LabelFor(*result.Overall)
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.CityName != b.CityName {
			return a.CityName < b.CityName
		}
		if a.BranchName != b.BranchName {
			return a.BranchName < b.BranchName
		}
		if a.CityID != b.CityID {
			return a.CityID < b.CityID
		}
		return a.BranchID < b.BranchID
	})
	return results
}

// Mean returns the arithmetic mean, or nil for no notes.
func Mean(notes []int) *float64 {
	if len(notes) == 0 {
		return nil
	}
	sum := lo.Sum(notes)
	m := float64(sum) / float64(len(notes))
	return &m
}
