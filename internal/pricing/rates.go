// Package pricing implements the two-tier formula evaluator: tier 1
// computes labor hours, tier 2 computes cost and profit. Both tiers are
// driven by the same small set of effect types so new variables can be
// added through configuration alone.
package pricing

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ServiceRate holds the per-unit base rates for one catalog service.
type ServiceRate struct {
	MaterialRate      float64 `yaml:"material_rate"`        // USD per unit
	LaborHoursPerUnit float64 `yaml:"labor_hours_per_unit"` // man-hours per unit
}

// IrrigationRates is the dedicated schedule for the irrigation category,
// which bypasses the generic effect-type formulas entirely.
type IrrigationRates struct {
	TurfZoneRate float64 `yaml:"turf_zone_rate"`
	DripZoneRate float64 `yaml:"drip_zone_rate"`
	SetupRate    float64 `yaml:"setup_rate"`
	BoringRate   float64 `yaml:"boring_rate"`
	HoursPerZone float64 `yaml:"hours_per_zone"`
	SetupHours   float64 `yaml:"setup_hours"`
	BoringHours  float64 `yaml:"boring_hours"`
}

// RateSchedule maps canonical service names to their base rates.
type RateSchedule struct {
	Services   map[string]ServiceRate `yaml:"services"`
	Irrigation IrrigationRates        `yaml:"irrigation"`
}

// Terms holds the company-level commercial parameters.
type Terms struct {
	HourlyRate   float64
	TeamSize     int
	ProfitMargin float64
}

// DefaultRates returns the built-in rate schedule, aligned with the
// default catalog.
func DefaultRates() RateSchedule {
	return RateSchedule{
		Services: map[string]ServiceRate{
			"Triple Ground Mulch": {MaterialRate: 1.50, LaborHoursPerUnit: 0.02},
			"Single Ground Mulch": {MaterialRate: 1.10, LaborHoursPerUnit: 0.02},
			"Topsoil":             {MaterialRate: 45.00, LaborHoursPerUnit: 1.0},
			"Grading":             {MaterialRate: 0.25, LaborHoursPerUnit: 0.015},
			"Metal Edging":        {MaterialRate: 4.00, LaborHoursPerUnit: 0.05},
			"Stone Edging":        {MaterialRate: 6.50, LaborHoursPerUnit: 0.08},
			"Sod Installation":    {MaterialRate: 0.85, LaborHoursPerUnit: 0.012},
			"Seed and Straw":      {MaterialRate: 0.15, LaborHoursPerUnit: 0.005},
			"Paver Patio":         {MaterialRate: 12.00, LaborHoursPerUnit: 0.15},
			"Retaining Wall":      {MaterialRate: 18.00, LaborHoursPerUnit: 0.25},
			"Flagstone Walkway":   {MaterialRate: 14.00, LaborHoursPerUnit: 0.18},
			"French Drain":        {MaterialRate: 9.00, LaborHoursPerUnit: 0.12},
			"Buried Downspouts":   {MaterialRate: 85.00, LaborHoursPerUnit: 1.5},
			"Tree Planting":       {MaterialRate: 150.00, LaborHoursPerUnit: 2.0},
			"Shrub Planting":      {MaterialRate: 45.00, LaborHoursPerUnit: 0.75},
			"Landscape Lighting":  {MaterialRate: 120.00, LaborHoursPerUnit: 1.25},
		},
		Irrigation: IrrigationRates{
			TurfZoneRate: 850.00,
			DripZoneRate: 650.00,
			SetupRate:    1200.00,
			BoringRate:   400.00,
			HoursPerZone: 6.0,
			SetupHours:   8.0,
			BoringHours:  4.0,
		},
	}
}

// LoadRates reads a YAML rate schedule, layered over the defaults so a
// partial file only overrides what it names.
func LoadRates(path string) (RateSchedule, error) {
	rates := DefaultRates()

	data, err := os.ReadFile(path)
	if err != nil {
		return rates, eris.Wrap(err, "pricing: read rates file")
	}
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return rates, eris.Wrap(err, "pricing: parse rates file")
	}
	return rates, nil
}
