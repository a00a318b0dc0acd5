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
	"slices"

	"github.com/poiesic/relevit/core"
)

// indexHits is one index's answer to a query: the raw matches plus
// the resolved passages, in index rank order.
type indexHits struct {
	source   core.SourceTag
	matches  []core.IndexMatch
	passages []*core.Passage
	weight   float32
}

// mergeCandidates combines per-index result sets into one ranked list.
//
// Raw scores from different indexes live in different score spaces,
// so each set is min-max normalized to [0,1] on its own before the
// origin weight is applied. Candidates are then ordered by weighted
// normalized score descending, tenant candidates ranking first on
// ties, and truncated to topK.
func mergeCandidates(sets []indexHits, topK int) []*core.SearchCandidate {
	var candidates []*core.SearchCandidate

	for _, set := range sets {
		normalized := normalizeScores(set.matches)
		byID := make(map[core.ID]*core.Passage, len(set.passages))
		for _, passage := range set.passages {
			byID[passage.Id] = passage
		}

		for i, match := range set.matches {
			passage, ok := byID[match.PassageId]
			if !ok {
				// Index hit with no retrievable passage; drop it.
				continue
			}
			candidates = append(candidates, &core.SearchCandidate{
				Passage:      passage,
				RawScore:     match.Score,
				NormScore:    normalized[i] * set.weight,
				OriginWeight: set.weight,
			})
		}
	}

	slices.SortStableFunc(candidates, compareCandidates)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// compareCandidates orders by merged score descending; on equal
// scores the tenant candidate ranks first.
func compareCandidates(a, b *core.SearchCandidate) int {
	if a.NormScore > b.NormScore {
		return -1
	}
	if a.NormScore < b.NormScore {
		return 1
	}
	if a.Passage.Source != b.Passage.Source {
		if a.Passage.Source == core.SourceTenant {
			return -1
		}
		return 1
	}
	return 0
}

// normalizeScores min-max normalizes one index's scores to [0,1].
// A set whose scores are all equal (including a single hit) maps to
// 1.0 across the board.
func normalizeScores(matches []core.IndexMatch) []float32 {
	normalized := make([]float32, len(matches))
	if len(matches) == 0 {
		return normalized
	}

	minScore := matches[0].Score
	maxScore := matches[0].Score
	for _, match := range matches[1:] {
		if match.Score < minScore {
			minScore = match.Score
		}
		if match.Score > maxScore {
			maxScore = match.Score
		}
	}

	if maxScore == minScore {
		for i := range normalized {
			normalized[i] = 1.0
		}
		return normalized
	}

	for i, match := range matches {
		normalized[i] = (match.Score - minScore) / (maxScore - minScore)
	}
	return normalized
}
