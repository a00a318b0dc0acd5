package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/relevit/llm"
	llmmock "github.com/poiesic/relevit/llm/mock"
	storagemock "github.com/poiesic/relevit/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSearchRouter builds a router over a single scripted provider for
// exercising the pipeline's routed stages.
func newSearchRouter(t *testing.T) (*llm.Router, *llmmock.MockProvider) {
	t.Helper()

	provider := llmmock.NewMockProvider("alpha")
	registry := llm.NewRegistry()
	require.NoError(t, registry.Register(provider))

	ledger, err := llm.NewLedger(storagemock.NewMockUsageStore(50))
	require.NoError(t, err)

	route := llm.Route{Provider: "alpha", Model: "alpha-small", Temperature: 0.2, MaxTokens: 200}
	config := llm.NewConfig(
		llm.WithRoute(llm.TaskChat, route),
		llm.WithRoute(llm.TaskHypothesis, route),
		llm.WithRoute(llm.TaskRerank, route),
		llm.WithRetryBaseDelay(time.Millisecond),
	)

	router, err := llm.NewRouter(registry, ledger, config)
	require.NoError(t, err)
	return router, provider
}

func TestNewHypothesisGeneratorRequiresRouter(t *testing.T) {
	_, err := NewHypothesisGenerator(nil)
	assert.ErrorIs(t, err, ErrRouterRequired)
}

func TestGenerateReturnsTrimmedHypothesis(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.EnqueueCompletion(&llm.Completion{
		Content: " The project budget is tracked in the cost baseline.\n", TokensIn: 40, TokensOut: 12,
	})

	generator, err := NewHypothesisGenerator(router)
	require.NoError(t, err)

	hypothesis, err := generator.Generate(context.Background(), "where is the budget tracked?")
	require.NoError(t, err)
	assert.Equal(t, "The project budget is tracked in the cost baseline.", hypothesis)
	assert.Equal(t, 1, provider.CallCount())
}

func TestGeneratePromptCarriesQuery(t *testing.T) {
	router, provider := newSearchRouter(t)

	generator, err := NewHypothesisGenerator(router)
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "what is the critical path?")
	require.NoError(t, err)

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 1)
	assert.Contains(t, reqs[0].Messages[0].Content, `"what is the critical path?"`)
}

func TestGenerateEmptyResponseYieldsEmptyHypothesis(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.EnqueueCompletion(&llm.Completion{Content: "  \n", TokensIn: 40, TokensOut: 1})

	generator, err := NewHypothesisGenerator(router)
	require.NoError(t, err)

	// Blank model output is not a hypothesis; the caller falls back
	// to the raw query and must not report hypothesis use.
	hypothesis, err := generator.Generate(context.Background(), "original query")
	require.NoError(t, err)
	assert.Empty(t, hypothesis)
}

func TestGeneratePropagatesRouterFailure(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.CompleteFunc = func(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
		return nil, &llm.ProviderError{Provider: "alpha", Retryable: false, Err: errors.New("status code: 401")}
	}

	generator, err := NewHypothesisGenerator(router)
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "query")
	assert.ErrorIs(t, err, llm.ErrLLMUnavailable)
}
