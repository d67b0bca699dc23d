package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradesphere/quote-engine/internal/model"
)

func TestNormalizeUnitToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SQFT", "sqft"},
		{"sq. ft.", "sq_ft"},
		{"linear feet", "linear_feet"},
		{"  Cubic   Yards ", "cubic_yards"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUnitToken(tt.in), "input %q", tt.in)
	}
}

func TestCompatibleUnit(t *testing.T) {
	tests := []struct {
		unit  model.Unit
		token string
		want  bool
	}{
		{model.UnitSqft, "sqft", true},
		{model.UnitSqft, "square feet", true},
		{model.UnitSqft, "", true}, // bare numbers may quantify sqft
		{model.UnitSqft, "feet", false},
		{model.UnitLinearFeet, "feet", true},
		{model.UnitLinearFeet, "ft", true},
		{model.UnitLinearFeet, "", false},
		{model.UnitCubicYards, "yards", true},
		{model.UnitCubicYards, "feet", false},
		{model.UnitEach, "zones", true},
		{model.UnitEach, "spouts", true},
		{model.UnitEach, "", true},
		{model.UnitZone, "zones", true},
		{model.UnitSetup, "setup", true},
		{model.UnitSetup, "zones", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompatibleUnit(tt.unit, tt.token),
			"unit %s token %q", tt.unit, tt.token)
	}
}

func TestIsUnitToken(t *testing.T) {
	assert.True(t, IsUnitToken("sqft"))
	assert.True(t, IsUnitToken("feet"))
	assert.True(t, IsUnitToken("zones"))
	assert.False(t, IsUnitToken("mulch"))
	assert.False(t, IsUnitToken(""))
}
