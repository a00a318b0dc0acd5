package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/llm"
	"github.com/poiesic/relevit/storage"
)

const (
	// DefaultTopK is the result count when the caller does not set one.
	DefaultTopK = 5

	// DefaultCacheTTL is how long a stored result answers repeats of
	// the same request.
	DefaultCacheTTL = 24 * time.Hour

	// overfetchFactor widens each index query so normalization and
	// reranking see more than the final cut.
	overfetchFactor = 2
)

// Options control one search call. The zero value searches the tenant
// index only with the default result count.
type Options struct {
	TopK          int
	UseHyde       bool
	UseReranker   bool
	IncludeShared bool
}

// normalize fills defaulted fields.
func (o *Options) normalize() {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
}

// Searcher orchestrates retrieval over the tenant and shared passage
// indexes with semantic caching, hypothesis expansion, and reranking.
type Searcher struct {
	tenantIndex storage.PassageIndex
	sharedIndex storage.PassageIndex
	cache       storage.SearchCache
	embedder    ai.Embedder
	hypothesis  *HypothesisGenerator
	reranker    *Reranker
	sharedBoost float32
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCache enables result caching on the given store.
func WithCache(cache storage.SearchCache) Option {
	return func(s *Searcher) error {
		s.cache = cache
		return nil
	}
}

// WithSharedBoost sets the weight applied to the shared index's
// normalized scores. Default is 1.0.
func WithSharedBoost(boost float32) Option {
	return func(s *Searcher) error {
		if boost <= 0 {
			return fmt.Errorf("shared boost must be positive, got %v", boost)
		}
		s.sharedBoost = boost
		return nil
	}
}

// WithCacheTTL sets how long stored results stay valid.
// Default is DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Searcher) error {
		if ttl <= 0 {
			return fmt.Errorf("cache TTL must be positive, got %v", ttl)
		}
		s.cacheTTL = ttl
		return nil
	}
}

// NewSearcher creates a searcher over the two indexes. The router
// powers hypothesis generation and reranking; calls that request
// neither run without it.
func NewSearcher(
	tenantIndex storage.PassageIndex,
	sharedIndex storage.PassageIndex,
	embedder ai.Embedder,
	router *llm.Router,
	opts ...Option,
) (*Searcher, error) {
	if tenantIndex == nil {
		return nil, ErrTenantIndexRequired
	}
	if sharedIndex == nil {
		return nil, ErrSharedIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		tenantIndex: tenantIndex,
		sharedIndex: sharedIndex,
		embedder:    embedder,
		sharedBoost: 1.0,
		cacheTTL:    DefaultCacheTTL,
		logger:      slog.Default(),
	}
	if router != nil {
		var err error
		if s.hypothesis, err = NewHypothesisGenerator(router); err != nil {
			return nil, err
		}
		if s.reranker, err = NewReranker(router); err != nil {
			return nil, err
		}
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs the retrieval pipeline for one query.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) (*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs the retrieval pipeline with stage callbacks.
//
// The pipeline degrades rather than fails on recoverable trouble: a
// hypothesis or rerank failure falls back to the plain path, and a
// single index outage narrows results to the surviving index. The
// call fails only when the embedder fails or no index answered.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts Options, monitor SearchMonitor) (*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	opts.normalize()
	monitor.Start(query)

	// 1. Cache lookup. The fingerprint covers everything that shapes
	// the result set, so a hit skips the rest of the pipeline.
	fingerprint := Fingerprint(query, &opts)
	if s.cache != nil {
		cached, err := s.cache.Lookup(ctx, fingerprint)
		if err == nil {
			monitor.CacheHit(fingerprint)
			monitor.Finish(cached)
			return cached, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("cache lookup failed", "err", err)
		}
	}

	// 2. Hypothesis expansion. The synthetic answer replaces the raw
	// query as the embedding seed when generation succeeds.
	searchText := query
	hypothesisUsed := false
	if opts.UseHyde {
		if s.hypothesis == nil {
			s.logger.Warn("hypothesis requested but no router configured")
		} else if hypothesis, err := s.hypothesis.Generate(ctx, query); err != nil {
			s.logger.Warn("hypothesis generation failed, searching with raw query", "err", err)
		} else if hypothesis != "" {
			searchText = hypothesis
			hypothesisUsed = true
			monitor.AfterHypothesis(hypothesis)
		}
	}

	// 3. Embed the search seed. No vector means no search.
	vector, err := s.embedder.EmbedText(ctx, searchText)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingFailure, err)
	}

	// 4. Query the indexes concurrently.
	sets, err := s.queryIndexes(ctx, vector, opts, monitor)
	if err != nil {
		return nil, err
	}

	// 5. Normalize, merge, truncate.
	candidates := mergeCandidates(sets, opts.TopK)
	monitor.AfterMerge(candidates)

	// 6. Optional second-pass rerank.
	if opts.UseReranker {
		if s.reranker == nil {
			s.logger.Warn("rerank requested but no router configured")
		} else if reranked, err := s.reranker.Rerank(ctx, query, candidates); err != nil {
			s.logger.Warn("reranking failed, keeping merged order", "err", err)
		} else {
			candidates = reranked
			monitor.AfterRerank(candidates)
		}
	}

	result := &core.SearchResult{
		Query:          query,
		Candidates:     candidates,
		HypothesisUsed: hypothesisUsed,
		Timestamp:      time.Now().UTC(),
	}

	// 7. Store for repeats. Identical fingerprints produce equivalent
	// results, so concurrent writers may race freely.
	if s.cache != nil {
		if err := s.cache.Store(ctx, fingerprint, result, s.cacheTTL); err != nil {
			s.logger.Warn("cache store failed", "err", err)
		}
	}

	monitor.Finish(result)
	return result, nil
}

// queryIndexes runs the tenant query, and the shared query when
// requested, concurrently. One index failing narrows the result; all
// targeted indexes failing is fatal.
func (s *Searcher) queryIndexes(ctx context.Context, vector []float32, opts Options, monitor SearchMonitor) ([]indexHits, error) {
	type indexTarget struct {
		source core.SourceTag
		index  storage.PassageIndex
		weight float32
	}
	targets := []indexTarget{
		{source: core.SourceTenant, index: s.tenantIndex, weight: 1.0},
	}
	if opts.IncludeShared {
		targets = append(targets, indexTarget{source: core.SourceShared, index: s.sharedIndex, weight: s.sharedBoost})
	}

	k := opts.TopK * overfetchFactor
	sets := make([]indexHits, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches, err := target.index.Query(ctx, vector, k)
			if err != nil {
				errs[i] = err
				return
			}
			ids := make([]core.ID, 0, len(matches))
			for _, match := range matches {
				ids = append(ids, match.PassageId)
			}
			passages, err := target.index.GetPassages(ctx, ids...)
			if err != nil {
				errs[i] = err
				return
			}
			sets[i] = indexHits{source: target.source, matches: matches, passages: passages, weight: target.weight}
		}()
	}
	wg.Wait()

	live := make([]indexHits, 0, len(targets))
	var lastErr error
	for i, target := range targets {
		if errs[i] != nil {
			lastErr = errs[i]
			s.logger.Warn("index query failed", "source", target.source, "err", errs[i])
			monitor.IndexFailed(target.source, errs[i])
			continue
		}
		monitor.AfterIndexQuery(target.source, sets[i].matches)
		live = append(live, sets[i])
	}

	if len(live) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, lastErr)
	}
	return live, nil
}
