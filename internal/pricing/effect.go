package pricing

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Effect is one resolved variable option, tagged by its effect type. It is
// the unit of work for the evaluator: each variant has exactly one
// evaluation rule, dispatched in a single exhaustive switch.
type Effect struct {
	Source          string // fully qualified variable path, for logs and errors
	Type            model.EffectType
	Tier            model.CalculationTier
	Value           float64
	LaborPercentage float64
	MaterialWaste   float64
}

// Multiplier recomputes the percentage multiplier from Value. A stored
// multiplier is never trusted: value and multiplier must stay in lockstep
// (multiplier = 1 + value/100), and recomputing prevents drift when a
// caller updates only one field.
func (e Effect) Multiplier() float64 {
	return 1 + e.Value/100
}

// ValueFromMultiplier derives the percentage value back from a multiplier.
// Round-trips exactly with Effect.Multiplier.
func ValueFromMultiplier(m float64) float64 {
	return (m - 1) * 100
}

// CollectEffects resolves every leaf variable in the tree to its selected
// option, falling back to the variable's default. Unknown option keys and
// unknown effect types are configuration errors, not silent no-ops.
// Results are ordered by variable path so evaluation is deterministic.
func CollectEffects(vc model.VariableConfig, selections map[string]string) ([]Effect, error) {
	var effects []Effect
	var walkErr error

	vc.Walk(func(path string, v model.Variable) {
		if walkErr != nil {
			return
		}

		key := v.Default
		if sel, ok := selections[path]; ok {
			key = sel
		}
		payload, ok := v.Options[key]
		if !ok {
			walkErr = eris.Errorf("pricing: variable %q has no option %q", path, key)
			return
		}

		if !knownEffectType(v.EffectType) {
			walkErr = eris.Errorf("pricing: variable %q has unknown effect type %q", path, v.EffectType)
			return
		}

		effects = append(effects, Effect{
			Source:          path,
			Type:            v.EffectType,
			Tier:            v.CalculationTier,
			Value:           payload.Value,
			LaborPercentage: payload.LaborPercentage,
			MaterialWaste:   payload.MaterialWaste,
		})
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(effects, func(i, j int) bool { return effects[i].Source < effects[j].Source })
	return effects, nil
}

func knownEffectType(t model.EffectType) bool {
	for _, known := range model.AllEffectTypes() {
		if t == known {
			return true
		}
	}
	return false
}
