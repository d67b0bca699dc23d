package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/config"
	"github.com/tradesphere/quote-engine/internal/model"
)

// aiFailureDiscount is applied to the overall confidence when the advisory
// pass fails and the pipeline proceeds deterministic-only.
const aiFailureDiscount = 0.95

// Pipeline wires the four stages together. Each invocation is synchronous
// and runs every stage to completion; the advisory AI call is the only
// suspension point and its failure is non-fatal.
type Pipeline struct {
	provider  catalog.Provider
	validator Validator
	cfg       config.PipelineConfig
}

// New creates a Pipeline. Pass NoopValidator to run without the AI pass.
func New(provider catalog.Provider, validator Validator, cfg config.PipelineConfig) *Pipeline {
	if validator == nil {
		validator = NoopValidator{}
	}
	return &Pipeline{provider: provider, validator: validator, cfg: cfg}
}

// Collect runs normalize → recognize → validate → advisory on a single
// customer message. A failed catalog load is fatal and reported as
// ConfigUnavailableError; everything else degrades to an incomplete result
// with clarification questions.
func (p *Pipeline) Collect(ctx context.Context, message, companyID string) (*model.CollectionResult, error) {
	start := time.Now()

	// Probe the catalog up front so a dead configuration source fails the
	// request instead of producing an empty "nothing recognized" result.
	if _, err := p.provider.Services(ctx); err != nil {
		return nil, NewConfigUnavailable("service catalog", err)
	}

	msg := Normalize(message)

	recognizer := NewRecognizer(p.provider, p.cfg)
	rec, err := recognizer.Recognize(ctx, msg)
	if err != nil {
		return nil, NewConfigUnavailable("synonym table", err)
	}

	collector := NewCollector(p.provider, p.cfg)
	result, err := collector.Collect(ctx, rec, message)
	if err != nil {
		return nil, NewConfigUnavailable("service catalog", err)
	}

	result.QuoteID = uuid.NewString()
	result.CreatedAt = time.Now().UTC()

	if len(result.Services) > 0 {
		patch, err := p.validator.Validate(ctx, result.Services, message)
		if err != nil {
			// Advisory failures never surface to the user; proceed with
			// the deterministic result at reduced confidence.
			zap.L().Warn("pipeline: advisory validation failed, continuing deterministic-only",
				zap.Error(err),
			)
			result.Confidence *= aiFailureDiscount
			if result.Status == model.StatusReadyForPricing && result.Confidence < p.cfg.CompletionThreshold {
				result.Status = model.StatusIncomplete
			}
		} else {
			applyAdvisory(result, patch, p.cfg.CompletionThreshold)
		}
	}

	zap.L().Info("pipeline: collection finished",
		zap.String("quote_id", result.QuoteID),
		zap.String("company_id", companyID),
		zap.String("status", string(result.Status)),
		zap.Int("services", len(result.Services)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// VariableConfig loads the company's variable tree for pricing. A missing
// or unreadable config is fatal for the request.
func (p *Pipeline) VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error) {
	vc, err := p.provider.VariableConfig(ctx, companyID)
	if err != nil {
		return nil, NewConfigUnavailable("variable config", err)
	}
	if vc == nil {
		return nil, NewConfigUnavailable("variable config for company "+companyID, nil)
	}
	return vc, nil
}
