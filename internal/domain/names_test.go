package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSiteName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Calperum Chowilla Flux Station", "Calperum"},
		{"Calperum Chowilla", "Calperum"},
		{"Alpine Peatland Flux Station", "AlpinePeat"},
		{"ArcturusEmerald Flux Station", "Emerald"},
		{"Wellington Research Station Flux Tower", "Wellington"},
		{"Aqueduct Snow Gum", "SnowGum"},
		{"Tumbarumba Flux Station", "Tumbarumba"},
		{"  Howard Springs  ", "HowardSprings"},
		{"Wombat State Forest", "WombatStateForest"},
		{"", ""},
		{"Flux Station", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSiteName(tt.label))
		})
	}
}

func TestNormalizeSiteName_Idempotent(t *testing.T) {
	labels := []string{
		"Calperum Chowilla Flux Station",
		"Alpine Peatland",
		"Samford Ecological Research Facility Flux Station",
		"Litchfield",
		"Cow Bay",
		"Dargo High Plains",
	}
	for _, label := range labels {
		once := NormalizeSiteName(label)
		assert.Equal(t, once, NormalizeSiteName(once), label)
	}
}
