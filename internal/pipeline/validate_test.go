package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/model"
)

func TestCollect_CompleteServicesReadyForPricing(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{
		Services: []model.RawService{
			{Name: "Triple Ground Mulch", Quantity: 45, Unit: model.UnitSqft, Confidence: 1.0},
			{Name: "Metal Edging", Quantity: 3, Unit: model.UnitLinearFeet, Confidence: 1.0},
		},
	}

	result, err := c.Collect(context.Background(), rec, "45 sqft mulch and 3 feet metal edging")
	require.NoError(t, err)

	assert.Equal(t, model.StatusReadyForPricing, result.Status)
	assert.Empty(t, result.MissingInfo)
	assert.Empty(t, result.ClarifyingQuestions)
	assert.Equal(t, 1.0, result.Confidence)
	require.Len(t, result.Services, 2)
	assert.True(t, result.Services[0].IsComplete)
	assert.Equal(t, 2, result.Services[0].Row)
	assert.Equal(t, "mulching", result.Services[0].Category)
	assert.Contains(t, result.SuggestedResponse, "Triple Ground Mulch (45 Sqft)")
	assert.Contains(t, result.SuggestedResponse, "Ready to price.")
}

func TestCollect_MissingQuantityAsksQuestion(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{
		Services: []model.RawService{
			{Name: "Triple Ground Mulch", Quantity: 0, Unit: model.UnitSqft, Confidence: 0.95},
		},
	}

	result, err := c.Collect(context.Background(), rec, "some mulch please")
	require.NoError(t, err)

	assert.Equal(t, model.StatusIncomplete, result.Status)
	assert.Equal(t, []string{"quantity for Triple Ground Mulch"}, result.MissingInfo)
	require.Len(t, result.ClarifyingQuestions, 1)
	assert.Equal(t, "How much Triple Ground Mulch do you need (in Sqft)?", result.ClarifyingQuestions[0])
	assert.False(t, result.Services[0].IsComplete)
}

func TestCollect_LowConfidenceAsksConfirmation(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{
		Services: []model.RawService{
			{Name: "Stone Edging", Quantity: 20, Unit: model.UnitLinearFeet, Confidence: 0.6, OriginalText: "rock thing along the bed"},
		},
	}

	result, err := c.Collect(context.Background(), rec, "rock thing along the bed")
	require.NoError(t, err)

	assert.Equal(t, model.StatusIncomplete, result.Status)
	assert.Contains(t, result.MissingInfo, "confirmation of Stone Edging")
	assert.Contains(t, result.ClarifyingQuestions,
		`Did you mean Stone Edging for "rock thing along the bed"?`)
}

func TestCollect_IrrigationMissingSubFields(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{
		Services: []model.RawService{
			{Name: "Irrigation Setup", Quantity: 1, Unit: model.UnitSetup, Confidence: 1.0},
		},
	}

	result, err := c.Collect(context.Background(), rec, "irrigation setup for the front yard")
	require.NoError(t, err)

	assert.Equal(t, model.StatusIncomplete, result.Status)
	require.Len(t, result.Services, 1)

	svc := result.Services[0]
	assert.True(t, svc.IsSpecial)
	require.NotNil(t, svc.SpecialRequirements)
	assert.True(t, svc.SpecialRequirements.SetupRequired)
	assert.Zero(t, svc.SpecialRequirements.Zones.Total)
	assert.Nil(t, svc.SpecialRequirements.Boring)

	assert.Contains(t, result.MissingInfo, "zone count for Irrigation Setup")
	assert.Contains(t, result.MissingInfo, "boring requirement for Irrigation Setup")
	assert.Contains(t, result.ClarifyingQuestions,
		"How many irrigation zones does the property need (turf and drip)?")
	assert.Contains(t, result.ClarifyingQuestions,
		"Will any irrigation lines need boring under a driveway or walkway?")

	// Special handling always discounts confidence.
	assert.InDelta(t, 0.9, svc.Confidence, 1e-9)
}

func TestCollect_IrrigationCompleteFromText(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{
		Services: []model.RawService{
			{Name: "Irrigation Setup", Quantity: 1, Unit: model.UnitSetup, Confidence: 1.0},
		},
	}

	result, err := c.Collect(context.Background(), rec,
		"irrigation setup with 3 turf zones and 1 drip zone, no boring")
	require.NoError(t, err)

	assert.Equal(t, model.StatusReadyForPricing, result.Status)
	svc := result.Services[0]
	require.NotNil(t, svc.SpecialRequirements)
	assert.Equal(t, 3, svc.SpecialRequirements.Zones.Turf)
	assert.Equal(t, 1, svc.SpecialRequirements.Zones.Drip)
	require.NotNil(t, svc.SpecialRequirements.Boring)
	assert.False(t, *svc.SpecialRequirements.Boring)

	// 1.0 discounted to 0.9, plus the single-service bonus.
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
}

func TestCollect_NothingRecognized(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{UnmappedText: []string{"paint the fence"}}

	result, err := c.Collect(context.Background(), rec, "paint the fence")
	require.NoError(t, err)

	assert.Equal(t, model.StatusIncomplete, result.Status)
	assert.Empty(t, result.Services)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, []string{"paint the fence"}, result.UnmappedText)
	assert.Contains(t, result.SuggestedResponse, "couldn't match")
}

func TestCollect_DuplicateQuestionsDeduped(t *testing.T) {
	c := NewCollector(catalog.Default(), testPipelineConfig())
	rec := &Recognition{
		Services: []model.RawService{
			{Name: "Irrigation Setup", Quantity: 1, Unit: model.UnitSetup, Confidence: 1.0},
			{Name: "Irrigation Zone", Quantity: 0, Unit: model.UnitZone, Confidence: 1.0},
		},
	}

	result, err := c.Collect(context.Background(), rec, "irrigation setup and another zone")
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, q := range result.ClarifyingQuestions {
		seen[q]++
	}
	for q, n := range seen {
		assert.Equal(t, 1, n, "question %q asked %d times", q, n)
	}
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "Sqft", unitLabel(model.UnitSqft))
	assert.Equal(t, "Linear Feet", unitLabel(model.UnitLinearFeet))
	assert.Equal(t, "Cubic Yards", unitLabel(model.UnitCubicYards))
}

func TestTrimZeros(t *testing.T) {
	assert.Equal(t, "45", trimZeros(45))
	assert.Equal(t, "3.5", trimZeros(3.5))
	assert.Equal(t, "120.25", trimZeros(120.25))
}
