package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/config"
	"github.com/tradesphere/quote-engine/internal/model"
)

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		RecognitionThreshold: 0.7,
		CompletionThreshold:  0.85,
	}
}

func TestRecognize_ExactSynonymWithQuantity(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	rec, err := r.Recognize(context.Background(), Normalize("45 sqft triple ground mulch"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)

	svc := rec.Services[0]
	assert.Equal(t, "Triple Ground Mulch", svc.Name)
	assert.Equal(t, 45.0, svc.Quantity)
	assert.Equal(t, model.UnitSqft, svc.Unit)
	// Base 0.8 + whole-word 0.15 + specificity 0.05, capped at 1.0.
	assert.Equal(t, 1.0, svc.Confidence)
	assert.False(t, svc.ImplicitUnit)
}

func TestRecognize_PartialWordMatchScoresLower(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	// "mulch" is a substring of "mulching", so the whole-word bonus does
	// not apply and the short phrase earns no specificity bonus.
	rec, err := r.Recognize(context.Background(), Normalize("mulching beds"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, "Triple Ground Mulch", rec.Services[0].Name)
	assert.InDelta(t, 0.8, rec.Services[0].Confidence, 1e-9)
}

func TestRecognize_BelowThresholdDropped(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.RecognitionThreshold = 0.9
	r := NewRecognizer(catalog.Default(), cfg)

	rec, err := r.Recognize(context.Background(), Normalize("mulching beds"))
	require.NoError(t, err)
	assert.Empty(t, rec.Services)
	// The segment matched a synonym, so it is dropped, not unmapped.
	assert.Empty(t, rec.UnmappedText)
	assert.Zero(t, rec.Confidence)
}

func TestRecognize_MultipleSegments(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	rec, err := r.Recognize(context.Background(),
		Normalize("45 sqft triple ground mulch and 3 feet metal edging"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 2)

	assert.Equal(t, "Triple Ground Mulch", rec.Services[0].Name)
	assert.Equal(t, 45.0, rec.Services[0].Quantity)
	assert.Equal(t, "Metal Edging", rec.Services[1].Name)
	assert.Equal(t, 3.0, rec.Services[1].Quantity)
	assert.Equal(t, model.UnitLinearFeet, rec.Services[1].Unit)

	// Mean 1.0 plus multi-service bonus, capped at 1.0.
	assert.Equal(t, 1.0, rec.Confidence)
}

func TestRecognize_DimensionInference(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	rec, err := r.Recognize(context.Background(), Normalize("paver patio 12x10"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, "Paver Patio", rec.Services[0].Name)
	assert.Equal(t, 120.0, rec.Services[0].Quantity)
}

func TestRecognize_SetupDefaultsToOne(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	rec, err := r.Recognize(context.Background(), Normalize("irrigation setup"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, "Irrigation Setup", rec.Services[0].Name)
	assert.Equal(t, 1.0, rec.Services[0].Quantity)
}

func TestRecognize_UnmappedSegments(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	rec, err := r.Recognize(context.Background(),
		Normalize("45 sqft mulch and paint the fence"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, []string{"paint the fence"}, rec.UnmappedText)
}

func TestRecognize_DuplicateMentionKeepsBest(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	// "mulch" appears in both segments; the mention with a quantity and a
	// whole-word match must win.
	rec, err := r.Recognize(context.Background(),
		Normalize("mulch for the beds and 45 sqft mulch up front"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, 45.0, rec.Services[0].Quantity)
}

func TestRecognize_SpecificPhraseShadowsGeneric(t *testing.T) {
	r := NewRecognizer(catalog.Default(), testPipelineConfig())

	// The generic "mulch" synonym is contained in "single ground mulch";
	// one mention must yield one billed service, not two.
	rec, err := r.Recognize(context.Background(), Normalize("200 sqft single ground mulch"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, "Single Ground Mulch", rec.Services[0].Name)
	assert.Equal(t, 200.0, rec.Services[0].Quantity)
	assert.Equal(t, 1.0, rec.Services[0].Confidence)

	rec, err = r.Recognize(context.Background(), Normalize("50 feet stone edging"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, "Stone Edging", rec.Services[0].Name)
	assert.Equal(t, 50.0, rec.Services[0].Quantity)

	// On its own the generic phrase still maps normally.
	rec, err = r.Recognize(context.Background(), Normalize("200 sqft mulch"))
	require.NoError(t, err)
	require.Len(t, rec.Services, 1)
	assert.Equal(t, "Triple Ground Mulch", rec.Services[0].Name)
}

func TestRecognize_SynonymForUnknownServiceSkipped(t *testing.T) {
	provider := catalog.NewStatic(
		nil,
		[]model.SynonymEntry{{Service: "Ghost Service", Phrases: []string{"mulch"}}},
		nil,
	)
	r := NewRecognizer(provider, testPipelineConfig())

	rec, err := r.Recognize(context.Background(), Normalize("45 sqft mulch"))
	require.NoError(t, err)
	assert.Empty(t, rec.Services)
	assert.Equal(t, []string{"45 sqft mulch"}, rec.UnmappedText)
}

func TestAggregateConfidence(t *testing.T) {
	mk := func(confs ...float64) []model.RawService {
		out := make([]model.RawService, len(confs))
		for i, c := range confs {
			out[i].Confidence = c
		}
		return out
	}

	assert.Zero(t, aggregateConfidence(nil))
	assert.InDelta(t, 0.85, aggregateConfidence(mk(0.8)), 1e-9)
	assert.InDelta(t, 0.90, aggregateConfidence(mk(0.8, 0.8)), 1e-9)
	// Bonus caps at 0.15 regardless of count.
	assert.InDelta(t, 0.95, aggregateConfidence(mk(0.8, 0.8, 0.8, 0.8, 0.8)), 1e-9)
	// And the total caps at 1.0.
	assert.Equal(t, 1.0, aggregateConfidence(mk(1.0, 1.0, 1.0)))
}
