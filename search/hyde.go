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
	"strings"

	"github.com/poiesic/relevit/llm"
)

// hypothesisPrompt asks for a plausible answer written as document
// prose. The hypothesis does not need to be factual; embedding it
// lands closer to relevant passages than embedding the bare question.
const hypothesisPrompt = `User question: %q

Generate a brief hypothetical answer (2-3 sentences) that would answer this question, using terminology typical of the documents it would be found in.

Do NOT say "according to documents" or "based on". Write as if it were an excerpt from an actual document.

Hypothetical answer:`

// HypothesisGenerator produces synthetic answers used as search seeds.
type HypothesisGenerator struct {
	router *llm.Router
	logger *slog.Logger
}

// NewHypothesisGenerator creates a hypothesis generator over a router.
func NewHypothesisGenerator(router *llm.Router) (*HypothesisGenerator, error) {
	if router == nil {
		return nil, ErrRouterRequired
	}
	return &HypothesisGenerator{
		router: router,
		logger: slog.Default().With("component", "hypothesis"),
	}, nil
}

// Generate produces a hypothetical answer for the query. The call is
// routed as a hypothesis task and charged like any other routed call.
// An empty model response yields an empty hypothesis with nil error;
// callers treat both failure and emptiness as recoverable and search
// with the raw query.
func (g *HypothesisGenerator) Generate(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(hypothesisPrompt, query)

	result, err := g.router.Run(ctx, llm.TaskHypothesis, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		return "", err
	}

	hypothesis := strings.TrimSpace(result.Content)
	if hypothesis == "" {
		g.logger.Warn("model returned empty hypothesis", "query", query)
		return "", nil
	}
	g.logger.Debug("generated hypothesis", "query", query, "chars", len(hypothesis))
	return hypothesis, nil
}
