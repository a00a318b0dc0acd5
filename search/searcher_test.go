package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	aimock "github.com/poiesic/relevit/ai/mock"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/llm"
	llmmock "github.com/poiesic/relevit/llm/mock"
	storagemock "github.com/poiesic/relevit/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture bundles a fully-mocked searcher.
type fixture struct {
	searcher *Searcher
	tenant   *storagemock.MockIndex
	shared   *storagemock.MockIndex
	cache    *storagemock.MockCache
	embedder *aimock.MockEmbedder
	provider *llmmock.MockProvider
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	tenant := storagemock.NewMockIndex()
	shared := storagemock.NewMockIndex()
	cache := storagemock.NewMockCache()
	embedder := aimock.NewMockEmbedder()
	router, provider := newSearchRouter(t)

	opts = append([]Option{WithCache(cache)}, opts...)
	searcher, err := NewSearcher(tenant, shared, embedder, router, opts...)
	require.NoError(t, err)

	return &fixture{
		searcher: searcher,
		tenant:   tenant,
		shared:   shared,
		cache:    cache,
		embedder: embedder,
		provider: provider,
	}
}

// seedWorkedExample loads the fixture with the canonical two-index
// scenario: tenant hits score 0.9 and 0.5, one shared hit scores 0.8.
func (f *fixture) seedWorkedExample(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := f.tenant.Upsert(ctx,
		passage(1, "tenant passage a", core.SourceTenant),
		passage(2, "tenant passage b", core.SourceTenant),
	)
	require.NoError(t, err)
	_, err = f.shared.Upsert(ctx, passage(3, "shared passage c", core.SourceShared))
	require.NoError(t, err)

	f.tenant.QueryFunc = func(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error) {
		return []core.IndexMatch{{PassageId: 1, Score: 0.9}, {PassageId: 2, Score: 0.5}}, nil
	}
	f.shared.QueryFunc = func(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error) {
		return []core.IndexMatch{{PassageId: 3, Score: 0.8}}, nil
	}
}

func TestNewSearcher(t *testing.T) {
	tenant := storagemock.NewMockIndex()
	shared := storagemock.NewMockIndex()
	embedder := aimock.NewMockEmbedder()
	router, _ := newSearchRouter(t)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(tenant, shared, embedder, router)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("without router", func(t *testing.T) {
		searcher, err := NewSearcher(tenant, shared, embedder, nil)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(tenant, shared, embedder, router, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil tenant index", func(t *testing.T) {
		_, err := NewSearcher(nil, shared, embedder, router)
		assert.Equal(t, ErrTenantIndexRequired, err)
	})

	t.Run("nil shared index", func(t *testing.T) {
		_, err := NewSearcher(tenant, nil, embedder, router)
		assert.Equal(t, ErrSharedIndexRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(tenant, shared, nil, router)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("invalid shared boost", func(t *testing.T) {
		_, err := NewSearcher(tenant, shared, embedder, router, WithSharedBoost(-1))
		assert.Error(t, err)
	})
}

func TestSearchMergesBothIndexes(t *testing.T) {
	f := newFixture(t, WithSharedBoost(0.5))
	f.seedWorkedExample(t)

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, IncludeShared: true})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)

	assert.Equal(t, core.ID(1), result.Candidates[0].Passage.Id)
	assert.InDelta(t, 1.0, float64(result.Candidates[0].NormScore), 1e-6)
	assert.Equal(t, core.ID(3), result.Candidates[1].Passage.Id)
	assert.InDelta(t, 0.5, float64(result.Candidates[1].NormScore), 1e-6)
	assert.Equal(t, core.ID(2), result.Candidates[2].Passage.Id)
	assert.InDelta(t, 0.0, float64(result.Candidates[2].NormScore), 1e-6)

	assert.False(t, result.HypothesisUsed)
	assert.False(t, result.Timestamp.IsZero())
}

func TestSearchTenantOnlyWhenSharedExcluded(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, IncludeShared: false})
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, 0, f.shared.QueryCount())
	for _, candidate := range result.Candidates {
		assert.Equal(t, core.SourceTenant, candidate.Passage.Source)
	}
}

func TestSearchToleratesSingleIndexOutage(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	f.shared.QueryFunc = func(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error) {
		return nil, errors.New("index offline")
	}

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, IncludeShared: true})
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	for _, candidate := range result.Candidates {
		assert.Equal(t, core.SourceTenant, candidate.Passage.Source)
	}
}

func TestSearchFailsWhenAllIndexesDown(t *testing.T) {
	f := newFixture(t)
	down := func(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error) {
		return nil, errors.New("index offline")
	}
	f.tenant.QueryFunc = down
	f.shared.QueryFunc = down

	_, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, IncludeShared: true})
	assert.ErrorIs(t, err, ErrIndexUnavailable)
}

func TestSearchEmbeddingFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	_, err := f.searcher.Search(context.Background(), "project budget", Options{})
	assert.ErrorIs(t, err, core.ErrEmbeddingFailure)
	assert.Equal(t, 0, f.tenant.QueryCount())
}

// A repeat of an identical request inside the TTL window must be
// served from the cache with zero embedder, index, hypothesis, or
// reranker activity — even though the hypothesis step is
// nondeterministic.
func TestSearchRepeatHitsCache(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)

	opts := Options{TopK: 3, UseHyde: true, UseReranker: false, IncludeShared: true}
	ctx := context.Background()

	first, err := f.searcher.Search(ctx, "project budget", opts)
	require.NoError(t, err)

	embedCalls := f.embedder.CallCount()
	tenantQueries := f.tenant.QueryCount()
	providerCalls := f.provider.CallCount()

	second, err := f.searcher.Search(ctx, "project budget", opts)
	require.NoError(t, err)

	assert.Equal(t, embedCalls, f.embedder.CallCount())
	assert.Equal(t, tenantQueries, f.tenant.QueryCount())
	assert.Equal(t, providerCalls, f.provider.CallCount())
	assert.Equal(t, first.Timestamp, second.Timestamp)
}

func TestSearchExpiredEntryMisses(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)

	opts := Options{TopK: 3, IncludeShared: true}
	ctx := context.Background()

	_, err := f.searcher.Search(ctx, "project budget", opts)
	require.NoError(t, err)

	f.cache.Expire(Fingerprint("project budget", &opts))

	tenantQueries := f.tenant.QueryCount()
	_, err = f.searcher.Search(ctx, "project budget", opts)
	require.NoError(t, err)
	assert.Greater(t, f.tenant.QueryCount(), tenantQueries)
}

func TestSearchHypothesisSeedsEmbedding(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	f.provider.EnqueueCompletion(&llm.Completion{
		Content: "The cost baseline tracks approved budget.", TokensIn: 50, TokensOut: 10,
	})

	var embedded string
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded = text
		return make([]float32, 8), nil
	}

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, UseHyde: true})
	require.NoError(t, err)

	assert.True(t, result.HypothesisUsed)
	assert.Equal(t, "The cost baseline tracks approved budget.", embedded)
}

func TestSearchHypothesisFailureFallsBackToRawQuery(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	f.provider.EnqueueError(&llm.ProviderError{Provider: "alpha", Retryable: false, Err: errors.New("status code: 401")})

	var embedded string
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded = text
		return make([]float32, 8), nil
	}

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, UseHyde: true})
	require.NoError(t, err)

	assert.False(t, result.HypothesisUsed)
	assert.Equal(t, "project budget", embedded)
}

func TestSearchEmptyHypothesisFallsBackToRawQuery(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	f.provider.EnqueueCompletion(&llm.Completion{Content: "\n", TokensIn: 50, TokensOut: 1})

	var embedded string
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded = text
		return make([]float32, 8), nil
	}

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 3, UseHyde: true})
	require.NoError(t, err)

	assert.False(t, result.HypothesisUsed)
	assert.Equal(t, "project budget", embedded)
	assert.Equal(t, 1, f.provider.CallCount())
}

func TestSearchRerankReorders(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	f.provider.EnqueueCompletion(&llm.Completion{Content: "2,1", TokensIn: 80, TokensOut: 3})

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 2, UseReranker: true})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)

	assert.Equal(t, core.ID(2), result.Candidates[0].Passage.Id)
	assert.True(t, result.Candidates[0].Reranked)
}

func TestSearchRerankFailureKeepsMergedOrder(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	f.provider.EnqueueCompletion(&llm.Completion{Content: "cannot comply", TokensIn: 80, TokensOut: 3})

	result, err := f.searcher.Search(context.Background(), "project budget",
		Options{TopK: 2, UseReranker: true})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)

	assert.Equal(t, core.ID(1), result.Candidates[0].Passage.Id)
	assert.False(t, result.Candidates[0].Reranked)
}

func TestSearchDefaultsTopK(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)

	result, err := f.searcher.Search(context.Background(), "project budget", Options{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Candidates), DefaultTopK)
}

// monitorRecorder counts stage callbacks.
type monitorRecorder struct {
	noopMonitor
	started   int
	cacheHits int
	merged    int
	finished  int
}

func (m *monitorRecorder) Start(_ string)                       { m.started++ }
func (m *monitorRecorder) CacheHit(_ core.ID)                   { m.cacheHits++ }
func (m *monitorRecorder) AfterMerge(_ []*core.SearchCandidate) { m.merged++ }
func (m *monitorRecorder) Finish(_ *core.SearchResult)          { m.finished++ }

func TestSearchMonitorCallbacks(t *testing.T) {
	f := newFixture(t)
	f.seedWorkedExample(t)
	ctx := context.Background()
	opts := Options{TopK: 3, IncludeShared: true}

	recorder := &monitorRecorder{}
	_, err := f.searcher.SearchWithMonitor(ctx, "project budget", opts, recorder)
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.started)
	assert.Equal(t, 1, recorder.merged)
	assert.Equal(t, 1, recorder.finished)
	assert.Zero(t, recorder.cacheHits)

	_, err = f.searcher.SearchWithMonitor(ctx, "project budget", opts, recorder)
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.cacheHits)
	assert.Equal(t, 1, recorder.merged)
	assert.Equal(t, 2, recorder.finished)
}
