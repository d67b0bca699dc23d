package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/config"
	"github.com/tradesphere/quote-engine/internal/model"
)

// specialDiscount reflects residual ambiguity when handing a special
// service to the pricing engine.
const specialDiscount = 0.9

var unitCaser = cases.Title(language.AmericanEnglish)

// Collector checks recognized services for completeness, expands
// special-category sub-fields, and produces clarification questions for
// anything missing.
type Collector struct {
	provider catalog.Provider
	cfg      config.PipelineConfig
}

// NewCollector creates a Collector over the injected catalog.
func NewCollector(provider catalog.Provider, cfg config.PipelineConfig) *Collector {
	return &Collector{provider: provider, cfg: cfg}
}

// Collect validates each recognized service, binds it to its catalog entry,
// and assembles the CollectionResult. The original message is consulted for
// special-category sub-fields.
func (c *Collector) Collect(ctx context.Context, rec *Recognition, original string) (*model.CollectionResult, error) {
	result := &model.CollectionResult{
		Status:       model.StatusIncomplete,
		UnmappedText: rec.UnmappedText,
	}

	questions := make(map[string]struct{})
	var orderedQuestions []string
	addQuestion := func(q string) {
		if _, dup := questions[q]; dup {
			return
		}
		questions[q] = struct{}{}
		orderedQuestions = append(orderedQuestions, q)
	}

	for _, raw := range rec.Services {
		sc, err := c.provider.ServiceByName(ctx, raw.Name)
		if err != nil {
			return nil, eris.Wrapf(err, "validate: look up service %q", raw.Name)
		}
		if sc == nil {
			zap.L().Warn("validate: recognized service missing from catalog",
				zap.String("service", raw.Name),
			)
			continue
		}

		validated := model.ValidatedService{RawService: raw, IsComplete: true}

		if raw.Quantity <= 0 {
			validated.IsComplete = false
			validated.MissingInfo = append(validated.MissingInfo,
				fmt.Sprintf("quantity for %s", raw.Name))
			q := fmt.Sprintf("How much %s do you need (in %s)?", raw.Name, unitLabel(sc.Unit))
			validated.Questions = append(validated.Questions, q)
			addQuestion(q)
		}
		if raw.Confidence < c.cfg.RecognitionThreshold {
			validated.IsComplete = false
			validated.MissingInfo = append(validated.MissingInfo,
				fmt.Sprintf("confirmation of %s", raw.Name))
			q := fmt.Sprintf("Did you mean %s for %q?", raw.Name, raw.OriginalText)
			validated.Questions = append(validated.Questions, q)
			addQuestion(q)
		}

		extracted := model.ExtractedService{
			ValidatedService: validated,
			Row:              sc.Row,
			Category:         sc.Category,
			IsSpecial:        sc.IsSpecial,
		}

		if sc.IsSpecial {
			c.collectSpecial(&extracted, sc, original, addQuestion)
		}

		result.MissingInfo = append(result.MissingInfo, extracted.MissingInfo...)
		result.Services = append(result.Services, extracted)
	}

	result.ClarifyingQuestions = orderedQuestions
	result.Confidence = aggregateServiceConfidence(result.Services)
	if len(result.MissingInfo) == 0 && result.Confidence >= c.cfg.CompletionThreshold {
		result.Status = model.StatusReadyForPricing
	}
	result.SuggestedResponse = c.summarize(result)

	zap.L().Info("validate: collection complete",
		zap.String("status", string(result.Status)),
		zap.Int("services", len(result.Services)),
		zap.Int("missing", len(result.MissingInfo)),
		zap.Float64("confidence", result.Confidence),
	)

	return result, nil
}

// collectSpecial expands special-category sub-fields. Missing required
// sub-fields count as missing info even when the base service itself is
// complete, and the service's confidence is discounted.
func (c *Collector) collectSpecial(svc *model.ExtractedService, sc *model.ServiceConfig, original string, addQuestion func(string)) {
	switch sc.Category {
	case "irrigation":
		req := parseIrrigation(original, sc.Unit)
		svc.SpecialRequirements = req

		if req.Zones.Total == 0 {
			svc.IsComplete = false
			svc.MissingInfo = append(svc.MissingInfo,
				fmt.Sprintf("zone count for %s", sc.Name))
			addQuestion("How many irrigation zones does the property need (turf and drip)?")
		}
		if req.Boring == nil {
			svc.IsComplete = false
			svc.MissingInfo = append(svc.MissingInfo,
				fmt.Sprintf("boring requirement for %s", sc.Name))
			addQuestion("Will any irrigation lines need boring under a driveway or walkway?")
		}
	default:
		zap.L().Warn("validate: no special handler for category",
			zap.String("service", sc.Name),
			zap.String("category", sc.Category),
		)
	}

	svc.Confidence *= specialDiscount
}

// summarize renders a human-readable recap of what was understood so the
// caller can present partial progress alongside any questions.
func (c *Collector) summarize(result *model.CollectionResult) string {
	if len(result.Services) == 0 {
		return "I couldn't match that to any of our services. Could you describe the work you need done?"
	}

	var parts []string
	for _, s := range result.Services {
		if s.Quantity > 0 {
			parts = append(parts, fmt.Sprintf("%s (%s %s)",
				s.Name, trimZeros(s.Quantity), unitLabel(s.Unit)))
		} else {
			parts = append(parts, s.Name)
		}
	}

	summary := "I understood: " + strings.Join(parts, ", ") + "."
	if result.Status == model.StatusReadyForPricing {
		return summary + " Ready to price."
	}
	if len(result.ClarifyingQuestions) > 0 {
		return summary + " " + strings.Join(result.ClarifyingQuestions, " ")
	}
	return summary
}

// aggregateServiceConfidence recomputes the overall confidence after
// validation discounts. It can only move down from the recognizer's figure,
// never up without new evidence.
func aggregateServiceConfidence(services []model.ExtractedService) float64 {
	if len(services) == 0 {
		return 0
	}
	var sum float64
	for _, s := range services {
		sum += s.Confidence
	}
	bonus := countBonusStep * float64(len(services))
	if bonus > countBonusCap {
		bonus = countBonusCap
	}
	confidence := sum/float64(len(services)) + bonus
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// unitLabel renders a billing unit for user-facing text: "linear_feet"
// becomes "Linear Feet".
func unitLabel(u model.Unit) string {
	return unitCaser.String(strings.ReplaceAll(string(u), "_", " "))
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
