package search

import (
	"testing"

	"github.com/poiesic/relevit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passage(id core.ID, text string, source core.SourceTag) *core.Passage {
	return &core.Passage{Id: id, Text: text, Source: source}
}

func TestNormalizeScores(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Empty(t, normalizeScores(nil))
	})

	t.Run("single hit maps to one", func(t *testing.T) {
		normalized := normalizeScores([]core.IndexMatch{{PassageId: 1, Score: 0.37}})
		require.Len(t, normalized, 1)
		assert.Equal(t, float32(1.0), normalized[0])
	})

	t.Run("equal scores all map to one", func(t *testing.T) {
		normalized := normalizeScores([]core.IndexMatch{
			{PassageId: 1, Score: 0.4},
			{PassageId: 2, Score: 0.4},
			{PassageId: 3, Score: 0.4},
		})
		for _, score := range normalized {
			assert.Equal(t, float32(1.0), score)
		}
	})

	t.Run("range maps to unit interval", func(t *testing.T) {
		normalized := normalizeScores([]core.IndexMatch{
			{PassageId: 1, Score: 0.9},
			{PassageId: 2, Score: 0.7},
			{PassageId: 3, Score: 0.5},
		})
		assert.InDelta(t, 1.0, normalized[0], 1e-6)
		assert.InDelta(t, 0.5, normalized[1], 1e-6)
		assert.InDelta(t, 0.0, normalized[2], 1e-6)
	})
}

// Tenant hits [(A,0.9),(B,0.5)] and a shared hit [(C,0.8)] with boost
// 0.5 must merge to A(1.0), C(0.5), B(0.0): each index normalizes its
// own score space before the boost applies.
func TestMergeAcrossIndexes(t *testing.T) {
	a := passage(1, "passage a", core.SourceTenant)
	b := passage(2, "passage b", core.SourceTenant)
	c := passage(3, "passage c", core.SourceShared)

	sets := []indexHits{
		{
			source:   core.SourceTenant,
			matches:  []core.IndexMatch{{PassageId: 1, Score: 0.9}, {PassageId: 2, Score: 0.5}},
			passages: []*core.Passage{a, b},
			weight:   1.0,
		},
		{
			source:   core.SourceShared,
			matches:  []core.IndexMatch{{PassageId: 3, Score: 0.8}},
			passages: []*core.Passage{c},
			weight:   0.5,
		},
	}

	candidates := mergeCandidates(sets, 3)
	require.Len(t, candidates, 3)

	assert.Equal(t, core.ID(1), candidates[0].Passage.Id)
	assert.InDelta(t, 1.0, float64(candidates[0].NormScore), 1e-6)

	assert.Equal(t, core.ID(3), candidates[1].Passage.Id)
	assert.InDelta(t, 0.5, float64(candidates[1].NormScore), 1e-6)

	assert.Equal(t, core.ID(2), candidates[2].Passage.Id)
	assert.InDelta(t, 0.0, float64(candidates[2].NormScore), 1e-6)
}

func TestMergeTieBreaksTenantFirst(t *testing.T) {
	sets := []indexHits{
		{
			source:   core.SourceShared,
			matches:  []core.IndexMatch{{PassageId: 2, Score: 0.8}},
			passages: []*core.Passage{passage(2, "shared passage", core.SourceShared)},
			weight:   1.0,
		},
		{
			source:   core.SourceTenant,
			matches:  []core.IndexMatch{{PassageId: 1, Score: 0.6}},
			passages: []*core.Passage{passage(1, "tenant passage", core.SourceTenant)},
			weight:   1.0,
		},
	}

	// Both single-hit sets normalize to 1.0; the tenant hit must win
	// even though the shared set was listed first.
	candidates := mergeCandidates(sets, 2)
	require.Len(t, candidates, 2)
	assert.Equal(t, core.SourceTenant, candidates[0].Passage.Source)
	assert.Equal(t, core.SourceShared, candidates[1].Passage.Source)
}

func TestMergeTruncatesToTopK(t *testing.T) {
	set := indexHits{source: core.SourceTenant, weight: 1.0}
	for i := 1; i <= 10; i++ {
		id := core.ID(i)
		set.matches = append(set.matches, core.IndexMatch{PassageId: id, Score: float32(i)})
		set.passages = append(set.passages, passage(id, "text", core.SourceTenant))
	}

	candidates := mergeCandidates([]indexHits{set}, 3)
	assert.Len(t, candidates, 3)
	assert.Equal(t, core.ID(10), candidates[0].Passage.Id)
}

func TestMergeDropsUnresolvedHits(t *testing.T) {
	set := indexHits{
		source:  core.SourceTenant,
		matches: []core.IndexMatch{{PassageId: 1, Score: 0.9}, {PassageId: 99, Score: 0.8}},
		passages: []*core.Passage{
			passage(1, "resolvable", core.SourceTenant),
		},
		weight: 1.0,
	}

	candidates := mergeCandidates([]indexHits{set}, 5)
	require.Len(t, candidates, 1)
	assert.Equal(t, core.ID(1), candidates[0].Passage.Id)
}
