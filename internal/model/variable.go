package model

// EffectType discriminates how a variable option changes the calculation.
type EffectType string

const (
	EffectLaborTimePercentage    EffectType = "labor_time_percentage"
	EffectMaterialCostMultiplier EffectType = "material_cost_multiplier"
	EffectTotalProjectMultiplier EffectType = "total_project_multiplier"
	EffectCuttingComplexity      EffectType = "cutting_complexity"
	EffectDailyEquipmentCost     EffectType = "daily_equipment_cost"
	EffectFlatAdditionalCost     EffectType = "flat_additional_cost"
)

// AllEffectTypes returns every known effect type.
func AllEffectTypes() []EffectType {
	return []EffectType{
		EffectLaborTimePercentage,
		EffectMaterialCostMultiplier,
		EffectTotalProjectMultiplier,
		EffectCuttingComplexity,
		EffectDailyEquipmentCost,
		EffectFlatAdditionalCost,
	}
}

// CalculationTier marks which tier a variable participates in.
type CalculationTier string

const (
	TierOne  CalculationTier = "1"
	TierTwo  CalculationTier = "2"
	TierBoth CalculationTier = "both"
)

// EffectPayload is the per-option effect data. Which fields are meaningful
// depends on the owning variable's EffectType. Multiplier is derivable from
// Value and is never trusted by the evaluator; it is kept on the wire only
// because the upstream configuration format carries it.
type EffectPayload struct {
	Value           float64 `json:"value" yaml:"value"`
	Multiplier      float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	LaborPercentage float64 `json:"labor_percentage,omitempty" yaml:"labor_percentage,omitempty"`
	MaterialWaste   float64 `json:"material_waste,omitempty" yaml:"material_waste,omitempty"`
}

// VariableType is the input widget kind for a variable.
type VariableType string

const (
	VariableSelect VariableType = "select"
	VariableNumber VariableType = "number"
)

// Variable is one leaf in the variable configuration tree.
type Variable struct {
	Type            VariableType             `json:"type" yaml:"type"`
	Default         string                   `json:"default" yaml:"default"`
	CalculationTier CalculationTier          `json:"calculation_tier" yaml:"calculation_tier"`
	EffectType      EffectType               `json:"effect_type" yaml:"effect_type"`
	Options         map[string]EffectPayload `json:"options" yaml:"options"`
}

// VariableGroup nests variables under a named heading. Groups may contain
// both leaf variables and further sub-groups.
type VariableGroup struct {
	Variables map[string]Variable      `json:"variables,omitempty" yaml:"variables,omitempty"`
	Groups    map[string]VariableGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// VariableConfig is a company's full variable tree. The pipeline only reads
// it; authoring and storage belong to the pricing configuration system.
type VariableConfig struct {
	Name   string                   `json:"name" yaml:"name"`
	Groups map[string]VariableGroup `json:"groups" yaml:"groups"`
}

// Walk visits every leaf variable in the tree, depth first. The visitor
// receives the variable's fully qualified name ("group.subgroup.variable").
func (vc VariableConfig) Walk(visit func(path string, v Variable)) {
	for name, g := range vc.Groups {
		walkGroup(name, g, visit)
	}
}

func walkGroup(prefix string, g VariableGroup, visit func(path string, v Variable)) {
	for name, v := range g.Variables {
		visit(prefix+"."+name, v)
	}
	for name, sub := range g.Groups {
		walkGroup(prefix+"."+name, sub, visit)
	}
}
