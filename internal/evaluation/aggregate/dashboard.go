package aggregate

import (
	"sort"

	"missionsuivi/internal/evaluation/models"
	id "missionsuivi/pkg/domain"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Dashboard computes means by city, branch and category over live records.
// Means are rounded to two decimals. Cities and branches are ordered by mean
// descending; categories keep their display order.
func Dashboard(records []models.Record, categories []models.Category) models.DashboardStats {
	stats := models.DashboardStats{
		ByCity:     []models.StatRow{},
		ByBranch:   []models.StatRow{},
		ByCategory: []models.StatRow{},
	}
	if len(records) == 0 {
		return stats
	}

	byCity := lo.GroupBy(records, func(r models.Record) id.CityID { return r.CityID })
	for cityID, group := range byCity {
		stats.ByCity = append(stats.ByCity, statRow(int64(cityID), group[0].CityName, group))
	}
	sortByMeanDesc(stats.ByCity)

	byBranch := lo.GroupBy(records, func(r models.Record) id.BranchID { return r.BranchID })
	for branchID, group := range byBranch {
		label := group[0].BranchName + " - " + group[0].CityName
		stats.ByBranch = append(stats.ByBranch, statRow(int64(branchID), label, group))
	}
	sortByMeanDesc(stats.ByBranch)

	byCategory := lo.GroupBy(records, func(r models.Record) id.CategoryID { return r.CategoryID })
	for _, c := range categories {
		group, ok := byCategory[c.ID]
		if !ok {
			continue
		}
		stats.ByCategory = append(stats.ByCategory, statRow(int64(c.ID), c.Label, group))
	}
	return stats
}

func statRow(rowID int64, label string, group []models.Record) models.StatRow {
	notes := lo.Map(group, func(r models.Record, _ int) int { return r.Note })
	return models.StatRow{
		ID:          rowID,
		Label:       label,
		Mean:        Round2(Mean(notes)),
		Submissions: len(lo.UniqBy(group, func(r models.Record) models.SubmissionKey { return r.SubmissionKey() })),
	}
}

// Round2 rounds half away from zero to two decimals.
func Round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r, _ := decimal.NewFromFloat(*v).Round(2).Float64()
	return &r
}

func sortByMeanDesc(rows []models.StatRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Mean == nil && b.Mean != nil:
			return false
		case a.Mean != nil && b.Mean == nil:
			return true
		case a.Mean != nil && b.Mean != nil && *a.Mean != *b.Mean:
			return *a.Mean > *b.Mean
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.ID < b.ID
	})
}
