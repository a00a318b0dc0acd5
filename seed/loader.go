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


package seed

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// Loader embeds passage text and writes it into an index, processing
// batches concurrently on a worker pool.
type Loader struct {
	index    storage.PassageIndex
	embedder ai.Embedder
	pool     *ants.Pool
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader writing into one index.
func NewLoader(index storage.PassageIndex, embedder ai.Embedder, opts ...Option) (*Loader, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		index:    index,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default().With("component", "seed-loader"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(l); err != nil {
			l.pool.Release()
			return nil, err
		}
	}

	return l, nil
}

// Load embeds a batch of texts and upserts them asynchronously.
// Errors during async processing are logged but do not fail the load.
// Call Wait before Release to let submitted batches finish.
func (l *Loader) Load(ctx context.Context, source core.SourceTag, origin map[string]string, texts ...string) error {
	if len(texts) == 0 {
		return nil
	}
	if err := core.ValidateSourceTag(source); err != nil {
		return err
	}

	batch := make([]string, len(texts))
	copy(batch, texts)

	l.wg.Add(1)
	return l.pool.Submit(func() {
		defer l.wg.Done()
		if err := l.process(ctx, source, origin, batch); err != nil {
			l.logger.Error("error loading batch", "count", len(batch), "err", err)
		}
	})
}

func (l *Loader) process(ctx context.Context, source core.SourceTag, origin map[string]string, texts []string) error {
	vectors, err := l.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	passages := make([]*core.Passage, 0, len(texts))
	for i, text := range texts {
		passages = append(passages, &core.Passage{
			Text:       text,
			Vector:     vectors[i],
			Source:     source,
			Origin:     origin,
			InsertedAt: now,
		})
	}

	_, err = l.index.Upsert(ctx, passages...)
	return err
}

// Wait blocks until all submitted batches have been processed.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	l.pool.Release()
}
