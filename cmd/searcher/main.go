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


package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/relevit"
	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/ai/openai"
	"github.com/poiesic/relevit/search"
	"github.com/poiesic/relevit/storage/badger"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	backend, err := badger.OpenBackend("./passage_db", false)
	if err != nil {
		panic(err)
	}
	defer backend.Close()

	tenantIndex, err := badger.NewPassageIndex(backend, relevit.TenantScope)
	if err != nil {
		panic(err)
	}
	sharedIndex, err := badger.NewPassageIndex(backend, relevit.SharedScope)
	if err != nil {
		panic(err)
	}

	embedder, err := openai.NewEmbedder(ai.DefaultConfig())
	if err != nil {
		panic(err)
	}

	// No router: plain vector search, no hypothesis or rerank passes.
	searcher, err := search.NewSearcher(tenantIndex, sharedIndex, embedder, nil)
	if err != nil {
		panic(err)
	}

	query := "lantern"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	ctx := context.Background()
	result, err := searcher.Search(ctx, query, search.Options{TopK: 5, IncludeShared: true})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(result.Candidates))
	for i, candidate := range result.Candidates {
		fmt.Printf("%d: '%s' (%d)[%0.3f]\n", i, candidate.Passage.Text, candidate.Passage.Id, candidate.Score())
	}
}
