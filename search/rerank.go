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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/llm"
)

// rerankExcerptChars bounds how much of each passage goes into the
// ranking prompt.
const rerankExcerptChars = 300

// Reranker cross-scores candidates against the query with a language
// model second pass.
type Reranker struct {
	router *llm.Router
	logger *slog.Logger
}

// NewReranker creates a reranker over a router.
func NewReranker(router *llm.Router) (*Reranker, error) {
	if router == nil {
		return nil, ErrRouterRequired
	}
	return &Reranker{
		router: router,
		logger: slog.Default().With("component", "reranker"),
	}, nil
}

// Rerank reorders candidates by model-judged relevance. Ranked
// candidates carry a rerank score in (0,1]; candidates the model left
// out keep their merged order after the ranked ones. The input slice
// is not modified.
//
// Callers treat failure as recoverable and keep the merged order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []*core.SearchCandidate) ([]*core.SearchCandidate, error) {
	if len(candidates) < 2 {
		return candidates, nil
	}

	result, err := r.router.Run(ctx, llm.TaskRerank, []llm.Message{llm.UserMessage(rankingPrompt(query, candidates))})
	if err != nil {
		return nil, err
	}

	ranking := parseRanking(result.Content, len(candidates))
	if len(ranking) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRanking, excerpt(result.Content, 80))
	}

	reranked := make([]*core.SearchCandidate, 0, len(candidates))
	seen := make(map[int]bool, len(ranking))
	for rank, idx := range ranking {
		candidate := *candidates[idx]
		candidate.RerankScore = 1.0 - float32(rank)/float32(len(ranking))
		candidate.Reranked = true
		reranked = append(reranked, &candidate)
		seen[idx] = true
	}

	// Unranked candidates trail in their merged order.
	for idx, candidate := range candidates {
		if !seen[idx] {
			reranked = append(reranked, candidate)
		}
	}

	r.logger.Debug("reranked candidates", "ranked", len(ranking), "total", len(candidates))
	return reranked, nil
}

// rankingPrompt lists numbered excerpts and asks for a bare
// comma-separated ordering.
func rankingPrompt(query string, candidates []*core.SearchCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given this query: %q\n\n", query)
	b.WriteString("Rank the following documents by relevance. Return ONLY a comma-separated list of document numbers in order of relevance (most relevant first).\n\n")
	for i, candidate := range candidates {
		fmt.Fprintf(&b, "Document %d:\n%s\n\n", i+1, excerpt(candidate.Passage.Text, rerankExcerptChars))
	}
	b.WriteString(`Ranking (e.g., "3,1,5,2,4"):`)
	return b.String()
}

// parseRanking extracts zero-based candidate indices from the model's
// response, dropping out-of-range numbers and duplicates.
func parseRanking(response string, n int) []int {
	var ranking []int
	seen := make(map[int]bool, n)
	for _, field := range strings.Split(strings.TrimSpace(response), ",") {
		number, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			continue
		}
		idx := number - 1
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		ranking = append(ranking, idx)
	}
	return slices.Clip(ranking)
}
