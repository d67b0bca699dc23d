package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Canonicalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and trims", "  45 SQFT Mulch  ", "45 sqft mulch"},
		{"dimension notation", "paver patio 12x10", "paver patio 12 by 10"},
		{"dimension with spaces", "12 x 10 patio", "12 by 10 patio"},
		{"glued number and unit", "45sqft mulch", "45 sqft mulch"},
		{"square feet spelling", "45 square feet of mulch", "45 sqft of mulch"},
		{"sq ft abbreviation", "45 sq. ft. mulch", "45 sqft mulch"},
		{"linear feet spelling", "30 lin ft edging", "30 linear feet edging"},
		{"cubic yards spelling", "5 cu yd topsoil", "5 cubic yards topsoil"},
		{"filler verbs removed", "i need mulch installed please", "i mulch"},
		{"installation is not filler", "sod installation", "sod installation"},
		{"whitespace collapsed", "mulch    and     edging", "mulch and edging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input).Text)
		})
	}
}

func TestNormalize_Segments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"and conjunction", "45 sqft mulch and 30 feet edging", []string{"45 sqft mulch", "30 feet edging"}},
		{"comma and plus", "mulch, edging plus sod", []string{"mulch", "edging", "sod"}},
		{"with conjunction", "irrigation setup with 2 turf zones", []string{"irrigation setup", "2 turf zones"}},
		{"single segment", "paver patio 12x10", []string{"paver patio 12 by 10"}},
		{"empty input", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input).Segments)
		})
	}
}

func TestNormalize_KeepsOriginal(t *testing.T) {
	msg := Normalize("Irrigation Setup WITH 3 turf zones")
	assert.Equal(t, "Irrigation Setup WITH 3 turf zones", msg.Original)
}

func TestNormalize_DimensionBeforeGluedNumber(t *testing.T) {
	// 12x10 must become "12 by 10", not "12 x 10" read as number+unit "x".
	msg := Normalize("12x10 patio")
	assert.Equal(t, "12 by 10 patio", msg.Text)
}
