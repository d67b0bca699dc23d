package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/config"
	"github.com/tradesphere/quote-engine/internal/model"
	"github.com/tradesphere/quote-engine/internal/resilience"
	"github.com/tradesphere/quote-engine/pkg/anthropic"
)

// ValidationPatch is the advisory output of the secondary AI pass.
type ValidationPatch struct {
	ValidatedServices    []string `json:"validated_services"`
	ValidationConfidence float64  `json:"validation_confidence"`
	MissedServices       []string `json:"missed_services,omitempty"`
}

// Validator is the injected "did we miss a service" capability. The
// deterministic pipeline works without it; implementations are advisory
// only and their failures must never reach the end user.
type Validator interface {
	Validate(ctx context.Context, services []model.ExtractedService, message string) (*ValidationPatch, error)
}

// NoopValidator skips the AI pass. The default for tests and offline use.
type NoopValidator struct{}

// Validate returns no patch, leaving deterministic results untouched.
func (NoopValidator) Validate(context.Context, []model.ExtractedService, string) (*ValidationPatch, error) {
	return nil, nil
}

const validateSystemPrompt = `You review landscaping quote extractions. Given the services recognized from a customer message, confirm which are correct and name any billable service the extraction missed. Respond with a valid JSON object: {"validated_services": ["<name>", ...], "validation_confidence": <0.0-1.0>, "missed_services": ["<name>", ...]}`

const validateUserPrompt = `Customer message: %q

Recognized services:
%s`

// ClaudeValidator runs the advisory pass against the Anthropic API.
type ClaudeValidator struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewClaudeValidator creates a ClaudeValidator.
func NewClaudeValidator(client anthropic.Client, cfg config.AnthropicConfig) *ClaudeValidator {
	return &ClaudeValidator{client: client, cfg: cfg}
}

// Validate sends a compact prompt and parses the advisory patch. No
// internal timeout: the caller's context bounds the only suspension point
// in the pipeline.
func (v *ClaudeValidator) Validate(ctx context.Context, services []model.ExtractedService, message string) (*ValidationPatch, error) {
	var listing strings.Builder
	for _, s := range services {
		fmt.Fprintf(&listing, "- %s: %s %s (confidence %.2f)\n",
			s.Name, trimZeros(s.Quantity), s.Unit, s.Confidence)
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = 2
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "validate")

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return v.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     v.cfg.Model,
			MaxTokens: 256,
			System:    anthropic.BuildCachedSystemBlocks(validateSystemPrompt),
			Messages: []anthropic.Message{
				{Role: "user", Content: fmt.Sprintf(validateUserPrompt, message, listing.String())},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(v.cfg.Model, "validation")

	var patch ValidationPatch
	if err := json.Unmarshal([]byte(cleanJSON(extractText(resp))), &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// applyAdvisory folds a validation patch into the result. Advisory only:
// confidence can move down, never up, and missed services become
// clarification questions rather than silently added line items.
func applyAdvisory(result *model.CollectionResult, patch *ValidationPatch, completionThreshold float64) {
	if patch == nil {
		return
	}

	if patch.ValidationConfidence > 0 && patch.ValidationConfidence < result.Confidence {
		zap.L().Info("pipeline: advisory pass lowered confidence",
			zap.Float64("from", result.Confidence),
			zap.Float64("to", patch.ValidationConfidence),
		)
		result.Confidence = patch.ValidationConfidence
	}

	for _, missed := range patch.MissedServices {
		q := fmt.Sprintf("Did you also want %s included in the quote?", missed)
		if !containsString(result.ClarifyingQuestions, q) {
			result.ClarifyingQuestions = append(result.ClarifyingQuestions, q)
		}
	}

	if result.Status == model.StatusReadyForPricing &&
		(result.Confidence < completionThreshold || len(patch.MissedServices) > 0) {
		result.Status = model.StatusIncomplete
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// extractText concatenates the text blocks of a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSON strips markdown fences and surrounding prose from a model
// response, keeping the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
