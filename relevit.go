// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package relevit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/relevit/ai"
	aiopenai "github.com/poiesic/relevit/ai/openai"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/llm"
	llmanthropic "github.com/poiesic/relevit/llm/anthropic"
	llmopenai "github.com/poiesic/relevit/llm/openai"
	"github.com/poiesic/relevit/search"
	"github.com/poiesic/relevit/storage"
	"github.com/poiesic/relevit/storage/badger"
	"github.com/poiesic/relevit/storage/redis"
)

// Index scopes inside the shared badger backend.
const (
	TenantScope = "tenant"
	SharedScope = "shared"
)

// Engine wires the full retrieval stack: the badger backend with its
// two passage indexes, the semantic cache, the usage store, the
// embedder, the provider registry, the budget-gated router, and the
// search orchestrator.
type Engine struct {
	backend     *badger.Backend
	tenantIndex storage.PassageIndex
	sharedIndex storage.PassageIndex
	cache       storage.SearchCache
	usageStore  storage.UsageStore
	embedder    ai.Embedder
	registry    *llm.Registry
	router      *llm.Router
	searcher    *search.Searcher
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	llmConfig   *llm.Config
	redisURL    string
	sharedBoost float32
	providers   []llm.Provider
	embedder    ai.Embedder
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) { o.aiConfig = config }
}

// WithLLMConfig sets the routing, pricing, and budget configuration.
func WithLLMConfig(config *llm.Config) EngineOption {
	return func(o *engineOptions) { o.llmConfig = config }
}

// WithRedisCache stores search results in redis instead of the
// embedded badger cache.
func WithRedisCache(redisURL string) EngineOption {
	return func(o *engineOptions) { o.redisURL = redisURL }
}

// WithSharedBoost weights the shared index's normalized scores.
func WithSharedBoost(boost float32) EngineOption {
	return func(o *engineOptions) { o.sharedBoost = boost }
}

// WithProviders replaces the default openai/anthropic provider set.
// Used by tests and by deployments with custom endpoints.
func WithProviders(providers ...llm.Provider) EngineOption {
	return func(o *engineOptions) { o.providers = providers }
}

// WithEmbedder replaces the default openai-compatible embedder.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) { o.embedder = embedder }
}

// NewEngine opens the storage backend at filePath and assembles the
// retrieval stack around it.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		llmConfig:   llm.DefaultConfig(),
		sharedBoost: 1.0,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	engine, err := assembleEngine(backend, options)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return engine, nil
}

// NewMemoryEngine assembles an engine over an in-memory backend.
// Used by tests and throwaway sessions.
func NewMemoryEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		llmConfig:   llm.DefaultConfig(),
		sharedBoost: 1.0,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	engine, err := assembleEngine(backend, options)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return engine, nil
}

func assembleEngine(backend *badger.Backend, options *engineOptions) (*Engine, error) {
	tenantIndex, err := badger.NewPassageIndex(backend, TenantScope)
	if err != nil {
		return nil, err
	}
	sharedIndex, err := badger.NewPassageIndex(backend, SharedScope)
	if err != nil {
		return nil, err
	}

	var cache storage.SearchCache
	if options.redisURL != "" {
		cache, err = redis.NewSearchCache(options.redisURL)
	} else {
		cache, err = badger.NewSearchCache(backend)
	}
	if err != nil {
		return nil, err
	}

	usageStore, err := badger.NewUsageStore(backend, options.llmConfig.Budget.MonthlyUSD)
	if err != nil {
		cache.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = aiopenai.NewEmbedder(options.aiConfig)
		if err != nil {
			usageStore.Close()
			cache.Close()
			return nil, err
		}
	}

	providers := options.providers
	if len(providers) == 0 {
		providers, err = defaultProviders()
		if err != nil {
			usageStore.Close()
			cache.Close()
			return nil, err
		}
	}
	registry := llm.NewRegistry()
	for _, provider := range providers {
		if err := registry.Register(provider); err != nil {
			usageStore.Close()
			cache.Close()
			return nil, err
		}
	}

	ledger, err := llm.NewLedger(usageStore)
	if err != nil {
		usageStore.Close()
		cache.Close()
		return nil, err
	}
	router, err := llm.NewRouter(registry, ledger, options.llmConfig)
	if err != nil {
		usageStore.Close()
		cache.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(tenantIndex, sharedIndex, embedder, router,
		search.WithCache(cache),
		search.WithSharedBoost(options.sharedBoost),
	)
	if err != nil {
		usageStore.Close()
		cache.Close()
		return nil, err
	}

	return &Engine{
		backend:     backend,
		tenantIndex: tenantIndex,
		sharedIndex: sharedIndex,
		cache:       cache,
		usageStore:  usageStore,
		embedder:    embedder,
		registry:    registry,
		router:      router,
		searcher:    searcher,
		logger:      slog.Default(),
	}, nil
}

func defaultProviders() ([]llm.Provider, error) {
	openaiProvider, err := llmopenai.NewProvider()
	if err != nil {
		return nil, err
	}
	anthropicProvider, err := llmanthropic.NewProvider()
	if err != nil {
		return nil, err
	}
	return []llm.Provider{openaiProvider, anthropicProvider}, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if err := e.cache.Close(); err != nil {
		e.logger.Error("error closing search cache", "err", err)
	}
	if err := e.usageStore.Close(); err != nil {
		e.logger.Error("error closing usage store", "err", err)
	}
	if err := e.tenantIndex.Close(); err != nil {
		e.logger.Error("error closing tenant index", "err", err)
	}
	if err := e.sharedIndex.Close(); err != nil {
		e.logger.Error("error closing shared index", "err", err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// TenantIndex returns the tenant-scoped passage index.
func (e *Engine) TenantIndex() storage.PassageIndex {
	return e.tenantIndex
}

// SharedIndex returns the shared passage index.
func (e *Engine) SharedIndex() storage.PassageIndex {
	return e.sharedIndex
}

// UsageStore returns the usage history and budget store.
func (e *Engine) UsageStore() storage.UsageStore {
	return e.usageStore
}

// Router returns the language model router.
func (e *Engine) Router() *llm.Router {
	return e.router
}

// Searcher returns the search orchestrator.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Source describes one passage behind an answer.
type Source struct {
	Text     string
	Name     string
	Score    float32
	IsShared bool
}

// Answer is the outcome of one Ask call.
type Answer struct {
	Content    string
	Sources    []Source
	Provider   string
	Model      string
	Cost       float64
	Hypothesis bool
}

const answerPrompt = `Answer the question using the context below. If the context does not contain the answer, say so.

%s

Question: %s

Answer:`

// Ask searches for relevant passages and routes a chat completion
// grounded in them.
func (e *Engine) Ask(ctx context.Context, query string, opts search.Options) (*Answer, error) {
	result, err := e.searcher.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	contextBlock := search.FormatContext(result, search.DefaultContextChars)
	prompt := fmt.Sprintf(answerPrompt, contextBlock, query)

	completion, err := e.router.Run(ctx, llm.TaskChat, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		name := candidate.Passage.Origin["source"]
		if name == "" {
			name = "Document"
		}
		sources = append(sources, Source{
			Text:     candidate.Passage.Text,
			Name:     name,
			Score:    candidate.Score(),
			IsShared: candidate.Passage.Source == core.SourceShared,
		})
	}

	return &Answer{
		Content:    completion.Content,
		Sources:    sources,
		Provider:   completion.Provider,
		Model:      completion.Model,
		Cost:       completion.Cost,
		Hypothesis: result.HypothesisUsed,
	}, nil
}
