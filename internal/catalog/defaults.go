package catalog

import "github.com/tradesphere/quote-engine/internal/model"

// defaultServices is the built-in catalog. Row numbers address the legacy
// pricing spreadsheet and must not be renumbered.
var defaultServices = []model.ServiceConfig{
	{Name: "Triple Ground Mulch", Row: 2, Unit: model.UnitSqft, Category: "mulching"},
	{Name: "Single Ground Mulch", Row: 3, Unit: model.UnitSqft, Category: "mulching"},
	{Name: "Topsoil", Row: 5, Unit: model.UnitCubicYards, Category: "grading"},
	{Name: "Grading", Row: 6, Unit: model.UnitSqft, Category: "grading"},
	{Name: "Metal Edging", Row: 8, Unit: model.UnitLinearFeet, Category: "edging"},
	{Name: "Stone Edging", Row: 9, Unit: model.UnitLinearFeet, Category: "edging"},
	{Name: "Sod Installation", Row: 11, Unit: model.UnitSqft, Category: "turf"},
	{Name: "Seed and Straw", Row: 12, Unit: model.UnitSqft, Category: "turf"},
	{Name: "Paver Patio", Row: 15, Unit: model.UnitSqft, Category: "hardscape"},
	{Name: "Retaining Wall", Row: 16, Unit: model.UnitSqft, Category: "hardscape"},
	{Name: "Flagstone Walkway", Row: 17, Unit: model.UnitSqft, Category: "hardscape"},
	{Name: "French Drain", Row: 20, Unit: model.UnitLinearFeet, Category: "drainage"},
	{Name: "Buried Downspouts", Row: 21, Unit: model.UnitEach, Category: "drainage"},
	{Name: "Tree Planting", Row: 24, Unit: model.UnitEach, Category: "planting"},
	{Name: "Shrub Planting", Row: 25, Unit: model.UnitEach, Category: "planting"},
	{Name: "Landscape Lighting", Row: 27, Unit: model.UnitEach, Category: "lighting"},
	{Name: "Irrigation Setup", Row: 30, Unit: model.UnitSetup, Category: "irrigation", IsSpecial: true},
	{Name: "Irrigation Zone", Row: 31, Unit: model.UnitZone, Category: "irrigation", IsSpecial: true},
}

// defaultSynonyms is the ordered synonym table. A phrase may appear under
// only one service; within a segment the first match wins.
var defaultSynonyms = []model.SynonymEntry{
	{Service: "Triple Ground Mulch", Phrases: []string{"triple ground mulch", "triple-ground mulch", "triple mulch", "mulch"}},
	{Service: "Single Ground Mulch", Phrases: []string{"single ground mulch", "single mulch"}},
	{Service: "Topsoil", Phrases: []string{"topsoil", "top soil", "fill dirt"}},
	{Service: "Grading", Phrases: []string{"grading", "regrade", "leveling"}},
	{Service: "Metal Edging", Phrases: []string{"metal edging", "steel edging", "edging"}},
	{Service: "Stone Edging", Phrases: []string{"stone edging", "rock border"}},
	{Service: "Sod Installation", Phrases: []string{"sod installation", "sod", "new lawn"}},
	{Service: "Seed and Straw", Phrases: []string{"seed and straw", "grass seed", "overseeding"}},
	{Service: "Paver Patio", Phrases: []string{"paver patio", "pavers", "patio"}},
	{Service: "Retaining Wall", Phrases: []string{"retaining wall", "garden wall"}},
	{Service: "Flagstone Walkway", Phrases: []string{"flagstone walkway", "flagstone", "walkway"}},
	{Service: "French Drain", Phrases: []string{"french drain", "drainage pipe"}},
	{Service: "Buried Downspouts", Phrases: []string{"buried downspouts", "downspout", "spouts"}},
	{Service: "Tree Planting", Phrases: []string{"tree planting", "trees", "tree"}},
	{Service: "Shrub Planting", Phrases: []string{"shrub planting", "shrubs", "bushes"}},
	{Service: "Landscape Lighting", Phrases: []string{"landscape lighting", "lighting", "path lights"}},
	{Service: "Irrigation Setup", Phrases: []string{"irrigation setup", "irrigation system", "sprinkler system", "irrigation", "sprinklers"}},
	{Service: "Irrigation Zone", Phrases: []string{"irrigation zone", "sprinkler zone"}},
}

// DefaultVariableConfig returns the stock variable tree with every
// percentage effect at its zero-value option, so defaults price at
// multiplier 1.0.
func DefaultVariableConfig() model.VariableConfig {
	return model.VariableConfig{
		Name: "default",
		Groups: map[string]model.VariableGroup{
			"site_conditions": {
				Variables: map[string]model.Variable{
					"terrain": {
						Type:            model.VariableSelect,
						Default:         "flat",
						CalculationTier: model.TierOne,
						EffectType:      model.EffectLaborTimePercentage,
						Options: map[string]model.EffectPayload{
							"flat":   {Value: 0},
							"sloped": {Value: 25},
							"steep":  {Value: 50},
						},
					},
					"access": {
						Type:            model.VariableSelect,
						Default:         "open",
						CalculationTier: model.TierOne,
						EffectType:      model.EffectLaborTimePercentage,
						Options: map[string]model.EffectPayload{
							"open":        {Value: 0},
							"gated":       {Value: 10},
							"backyard":    {Value: 20},
							"wheelbarrow": {Value: 40},
						},
					},
				},
			},
			"materials": {
				Variables: map[string]model.Variable{
					"material_grade": {
						Type:            model.VariableSelect,
						Default:         "standard",
						CalculationTier: model.TierTwo,
						EffectType:      model.EffectMaterialCostMultiplier,
						Options: map[string]model.EffectPayload{
							"standard": {Value: 0},
							"premium":  {Value: 30},
						},
					},
					"cutting": {
						Type:            model.VariableSelect,
						Default:         "none",
						CalculationTier: model.TierBoth,
						EffectType:      model.EffectCuttingComplexity,
						Options: map[string]model.EffectPayload{
							"none":     {LaborPercentage: 0, MaterialWaste: 0},
							"straight": {LaborPercentage: 10, MaterialWaste: 5},
							"curved":   {LaborPercentage: 25, MaterialWaste: 12},
						},
					},
				},
			},
			"equipment": {
				Variables: map[string]model.Variable{
					"skid_steer": {
						Type:            model.VariableSelect,
						Default:         "none",
						CalculationTier: model.TierTwo,
						EffectType:      model.EffectDailyEquipmentCost,
						Options: map[string]model.EffectPayload{
							"none":   {Value: 0},
							"rented": {Value: 350},
						},
					},
					"disposal_fee": {
						Type:            model.VariableSelect,
						Default:         "none",
						CalculationTier: model.TierTwo,
						EffectType:      model.EffectFlatAdditionalCost,
						Options: map[string]model.EffectPayload{
							"none":     {Value: 0},
							"dumpster": {Value: 200},
						},
					},
				},
			},
			"project": {
				Variables: map[string]model.Variable{
					"season_demand": {
						Type:            model.VariableSelect,
						Default:         "normal",
						CalculationTier: model.TierTwo,
						EffectType:      model.EffectTotalProjectMultiplier,
						Options: map[string]model.EffectPayload{
							"normal": {Value: 0},
							"peak":   {Value: 15},
						},
					},
				},
			},
		},
	}
}

// Default returns the built-in catalog provider.
func Default() *Static {
	return NewStatic(defaultServices, defaultSynonyms, map[string]model.VariableConfig{
		"": DefaultVariableConfig(),
	})
}
