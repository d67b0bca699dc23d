package anthropic

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/quote-engine/internal/resilience"
)

func TestEstimateCost_KnownModel(t *testing.T) {
	usage := TokenUsage{
		InputTokens:  1_000_000,
		OutputTokens: 500_000,
	}

	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80+2.00, cost, 1e-9)
}

func TestEstimateCost_CacheTokens(t *testing.T) {
	usage := TokenUsage{
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     1_000_000,
	}

	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80*1.25+0.80*0.1, cost, 1e-9)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1000}
	assert.Zero(t, usage.EstimateCost("some-future-model"))
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("review quotes")
	require.Len(t, blocks, 1)
	assert.Equal(t, "review quotes", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}

func TestToSDKMessages_Roles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
}

func apiError(status int) *sdk.Error {
	return &sdk.Error{
		StatusCode: status,
		Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil),
		Response:   &http.Response{StatusCode: status},
	}
}

func TestClassifyError_TransientStatuses(t *testing.T) {
	// Rate-limited and overloaded responses must surface as retryable so
	// the advisory pass actually retries them.
	for _, status := range []int{429, 529, 503} {
		err := classifyError(apiError(status))
		assert.True(t, resilience.IsTransient(err), "status %d", status)
	}
}

func TestClassifyError_PermanentStatuses(t *testing.T) {
	for _, status := range []int{400, 401, 404} {
		err := classifyError(apiError(status))
		require.Error(t, err)
		assert.False(t, resilience.IsTransient(err), "status %d", status)
	}
}

func TestClassifyError_NonAPIError(t *testing.T) {
	err := classifyError(errors.New("marshal failure"))
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
	assert.Contains(t, err.Error(), "anthropic: create message")
}

func TestNewClient_NoLimiterWhenDisabled(t *testing.T) {
	c := NewClient("test-key", 0).(*sdkClient)
	assert.Nil(t, c.limiter)

	limited := NewClient("test-key", 60).(*sdkClient)
	require.NotNil(t, limited.limiter)
	assert.InDelta(t, 1.0, float64(limited.limiter.Limit()), 1e-9)
}
