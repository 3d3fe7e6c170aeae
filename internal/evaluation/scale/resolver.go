// Package scale maps average notes to the qualitative labels of the bareme.
package scale

import (
	"math"

	"missionsuivi/internal/evaluation/models"
)

// Resolver is built from one snapshot of the scale table.
type Resolver struct {
	labels map[int]string
}

func NewResolver(items []models.ScaleItem) *Resolver {
	r := &Resolver{labels: make(map[int]string, len(items))}
	for _, item := range items {
		r.labels[item.Note] = item.Label
	}
	return r
}

// LabelFor rounds half away from zero and returns the label for the rounded
// note. Out-of-range or unmapped values yield "".
func (r *Resolver) LabelFor(avg float64) string {
	if r == nil || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return ""
	}
	rounded := math.Round(avg)
	if rounded < 1 || rounded > 5 {
		return ""
	}
	return r.labels[int(rounded)]
}

// Len reports how many notes have a label.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.labels)
}
