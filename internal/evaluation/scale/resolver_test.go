package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"missionsuivi/internal/evaluation/models"
)

func bareme() []models.ScaleItem {
	return []models.ScaleItem{
		{Note: 1, Label: "Insuffisant"},
		{Note: 2, Label: "Passable"},
		{Note: 3, Label: "Moyen"},
		{Note: 4, Label: "Bien"},
		{Note: 5, Label: "Très bien"},
	}
}

func TestLabelFor(t *testing.T) {
	r := NewResolver(bareme())

	tests := []struct {
		name string
		avg  float64
		want string
	}{
		{"half rounds up", 3.5, "Bien"},
		{"below half rounds down", 3.49, "Moyen"},
		{"exact", 2, "Passable"},
		{"top", 4.5, "Très bien"},
		{"lowest half", 0.5, "Insuffisant"},
		{"below range", 0.49, ""},
		{"zero", 0, ""},
		{"above range", 5.5, ""},
		{"negative", -1, ""},
		{"nan", math.NaN(), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.LabelFor(tc.avg))
		})
	}
}

func TestLabelForMissingEntry(t *testing.T) {
	r := NewResolver([]models.ScaleItem{{Note: 5, Label: "Très bien"}})
	assert.Equal(t, "", r.LabelFor(3))
	assert.Equal(t, 1, r.Len())
}

func TestNilResolver(t *testing.T) {
	var r *Resolver
	assert.Equal(t, "", r.LabelFor(4))
}
