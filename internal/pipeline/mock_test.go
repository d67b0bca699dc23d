package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tradesphere/quote-engine/internal/model"
	"github.com/tradesphere/quote-engine/pkg/anthropic"
)

// mockAnthropicClient is a testify mock for the Anthropic client.
type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// stubValidator returns a fixed patch or error.
type stubValidator struct {
	patch *ValidationPatch
	err   error
}

func (s stubValidator) Validate(context.Context, []model.ExtractedService, string) (*ValidationPatch, error) {
	return s.patch, s.err
}

// failingProvider errors on every read, simulating a dead config source.
type failingProvider struct {
	err error
}

func (p failingProvider) Services(context.Context) ([]model.ServiceConfig, error) {
	return nil, p.err
}

func (p failingProvider) ServiceByName(context.Context, string) (*model.ServiceConfig, error) {
	return nil, p.err
}

func (p failingProvider) Synonyms(context.Context) ([]model.SynonymEntry, error) {
	return nil, p.err
}

func (p failingProvider) VariableConfig(context.Context, string) (*model.VariableConfig, error) {
	return nil, p.err
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}
