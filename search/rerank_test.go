package search

import (
	"context"
	"testing"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rerankCandidates(n int) []*core.SearchCandidate {
	candidates := make([]*core.SearchCandidate, 0, n)
	for i := 1; i <= n; i++ {
		candidates = append(candidates, &core.SearchCandidate{
			Passage:      passage(core.ID(i), "candidate text", core.SourceTenant),
			NormScore:    1.0 - float32(i-1)*0.1,
			OriginWeight: 1.0,
		})
	}
	return candidates
}

func TestNewRerankerRequiresRouter(t *testing.T) {
	_, err := NewReranker(nil)
	assert.ErrorIs(t, err, ErrRouterRequired)
}

func TestRerankAppliesModelRanking(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.EnqueueCompletion(&llm.Completion{Content: "2, 1, 3", TokensIn: 100, TokensOut: 5})

	reranker, err := NewReranker(router)
	require.NoError(t, err)

	reranked, err := reranker.Rerank(context.Background(), "query", rerankCandidates(3))
	require.NoError(t, err)
	require.Len(t, reranked, 3)

	assert.Equal(t, core.ID(2), reranked[0].Passage.Id)
	assert.Equal(t, core.ID(1), reranked[1].Passage.Id)
	assert.Equal(t, core.ID(3), reranked[2].Passage.Id)

	assert.True(t, reranked[0].Reranked)
	assert.InDelta(t, 1.0, float64(reranked[0].RerankScore), 1e-6)
	assert.InDelta(t, 1.0-1.0/3.0, float64(reranked[1].RerankScore), 1e-6)
	assert.InDelta(t, 1.0-2.0/3.0, float64(reranked[2].RerankScore), 1e-6)
}

func TestRerankPartialRankingKeepsMergedTail(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.EnqueueCompletion(&llm.Completion{Content: "3", TokensIn: 100, TokensOut: 2})

	reranker, err := NewReranker(router)
	require.NoError(t, err)

	reranked, err := reranker.Rerank(context.Background(), "query", rerankCandidates(3))
	require.NoError(t, err)
	require.Len(t, reranked, 3)

	assert.Equal(t, core.ID(3), reranked[0].Passage.Id)
	assert.True(t, reranked[0].Reranked)

	// The unranked candidates trail in merged order, untouched.
	assert.Equal(t, core.ID(1), reranked[1].Passage.Id)
	assert.False(t, reranked[1].Reranked)
	assert.Equal(t, core.ID(2), reranked[2].Passage.Id)
}

func TestRerankUnusableResponse(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.EnqueueCompletion(&llm.Completion{Content: "I cannot rank these.", TokensIn: 100, TokensOut: 6})

	reranker, err := NewReranker(router)
	require.NoError(t, err)

	_, err = reranker.Rerank(context.Background(), "query", rerankCandidates(3))
	assert.ErrorIs(t, err, ErrNoRanking)
}

func TestRerankSkipsTrivialSets(t *testing.T) {
	router, provider := newSearchRouter(t)

	reranker, err := NewReranker(router)
	require.NoError(t, err)

	single := rerankCandidates(1)
	reranked, err := reranker.Rerank(context.Background(), "query", single)
	require.NoError(t, err)
	assert.Equal(t, single, reranked)
	assert.Zero(t, provider.CallCount())
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	router, provider := newSearchRouter(t)
	provider.EnqueueCompletion(&llm.Completion{Content: "2,1", TokensIn: 50, TokensOut: 3})

	reranker, err := NewReranker(router)
	require.NoError(t, err)

	original := rerankCandidates(2)
	_, err = reranker.Rerank(context.Background(), "query", original)
	require.NoError(t, err)

	assert.False(t, original[0].Reranked)
	assert.False(t, original[1].Reranked)
}

func TestParseRanking(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     []int
	}{
		{"plain", "3,1,2", 3, []int{2, 0, 1}},
		{"spaced", " 2 , 1 ", 2, []int{1, 0}},
		{"duplicates dropped", "1,1,2", 2, []int{0, 1}},
		{"out of range dropped", "1,9,2", 2, []int{0, 1}},
		{"garbage", "none of these", 3, nil},
		{"mixed", "1, definitely, 3", 3, []int{0, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseRanking(tc.response, tc.n))
		})
	}
}
