package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/model"
)

func TestEffectMultiplier_DerivedFromValue(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{0, 1.0},
		{25, 1.25},
		{40, 1.4},
		{100, 2.0},
		{-10, 0.9},
	}
	for _, tt := range tests {
		e := Effect{Value: tt.value}
		assert.InDelta(t, tt.want, e.Multiplier(), 1e-9)
	}
}

func TestEffectMultiplier_IgnoresStoredMultiplier(t *testing.T) {
	// A drifted stored multiplier must never win over the value.
	vc := model.VariableConfig{
		Groups: map[string]model.VariableGroup{
			"site": {
				Variables: map[string]model.Variable{
					"terrain": {
						Default:    "sloped",
						EffectType: model.EffectLaborTimePercentage,
						Options: map[string]model.EffectPayload{
							"sloped": {Value: 40, Multiplier: 2.0},
						},
					},
				},
			},
		},
	}

	effects, err := CollectEffects(vc, nil)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.InDelta(t, 1.4, effects[0].Multiplier(), 1e-9)
}

func TestValueFromMultiplier_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 15, 25, 40, 100} {
		e := Effect{Value: v}
		assert.InDelta(t, v, ValueFromMultiplier(e.Multiplier()), 1e-9)
	}
}

func TestCollectEffects_DefaultsResolveEveryLeaf(t *testing.T) {
	effects, err := CollectEffects(catalog.DefaultVariableConfig(), nil)
	require.NoError(t, err)
	require.Len(t, effects, 7)

	// Deterministic ordering by variable path.
	paths := make([]string, len(effects))
	for i, e := range effects {
		paths[i] = e.Source
	}
	assert.Equal(t, []string{
		"equipment.disposal_fee",
		"equipment.skid_steer",
		"materials.cutting",
		"materials.material_grade",
		"project.season_demand",
		"site_conditions.access",
		"site_conditions.terrain",
	}, paths)

	// Stock defaults are all zero-value, so nothing moves the price.
	for _, e := range effects {
		assert.Zero(t, e.Value, "default for %s", e.Source)
		assert.Zero(t, e.LaborPercentage, "default for %s", e.Source)
		assert.Zero(t, e.MaterialWaste, "default for %s", e.Source)
	}
}

func TestCollectEffects_SelectionOverridesDefault(t *testing.T) {
	effects, err := CollectEffects(catalog.DefaultVariableConfig(), map[string]string{
		"site_conditions.terrain": "steep",
	})
	require.NoError(t, err)

	for _, e := range effects {
		if e.Source == "site_conditions.terrain" {
			assert.Equal(t, 50.0, e.Value)
			assert.Equal(t, model.EffectLaborTimePercentage, e.Type)
			return
		}
	}
	t.Fatal("terrain effect not collected")
}

func TestCollectEffects_UnknownOptionIsError(t *testing.T) {
	_, err := CollectEffects(catalog.DefaultVariableConfig(), map[string]string{
		"site_conditions.terrain": "vertical",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertical")
}

func TestCollectEffects_UnknownEffectTypeIsError(t *testing.T) {
	vc := model.VariableConfig{
		Groups: map[string]model.VariableGroup{
			"g": {
				Variables: map[string]model.Variable{
					"v": {
						Default:    "on",
						EffectType: "quantum_discount",
						Options:    map[string]model.EffectPayload{"on": {Value: 10}},
					},
				},
			},
		},
	}
	_, err := CollectEffects(vc, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantum_discount")
}

func TestCollectEffects_NestedGroups(t *testing.T) {
	vc := model.VariableConfig{
		Groups: map[string]model.VariableGroup{
			"site": {
				Groups: map[string]model.VariableGroup{
					"soil": {
						Variables: map[string]model.Variable{
							"rocky": {
								Default:    "no",
								EffectType: model.EffectLaborTimePercentage,
								Options: map[string]model.EffectPayload{
									"no":  {Value: 0},
									"yes": {Value: 20},
								},
							},
						},
					},
				},
			},
		},
	}

	effects, err := CollectEffects(vc, map[string]string{"site.soil.rocky": "yes"})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, "site.soil.rocky", effects[0].Source)
	assert.Equal(t, 20.0, effects[0].Value)
}
