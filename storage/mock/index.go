package mock

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// MockIndex is an in-memory test double for storage.PassageIndex.
// It allows custom behavior injection via function fields.
type MockIndex struct {
	// QueryFunc is called by Query if set.
	// If nil, scores stored passages by dot product.
	QueryFunc func(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error)

	mu         sync.Mutex
	passages   map[core.ID]*core.Passage
	queryCount int
}

var _ storage.PassageIndex = (*MockIndex)(nil)

// NewMockIndex creates an empty in-memory index.
// Note: Returns concrete type to allow test assertions.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		passages: make(map[core.ID]*core.Passage),
	}
}

// Upsert adds or replaces passages.
func (m *MockIndex) Upsert(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, passage := range passages {
		if passage.Id == 0 {
			passage.Id = core.IDFromContent(passage.Text)
		}
		if passage.InsertedAt.IsZero() {
			passage.InsertedAt = time.Now().UTC()
		}
		m.passages[passage.Id] = passage
	}
	return passages, nil
}

// Delete removes passages by ID.
func (m *MockIndex) Delete(ctx context.Context, ids ...core.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.passages[id]; !ok {
			return storage.ErrNotFound
		}
		delete(m.passages, id)
	}
	return nil
}

// GetPassage retrieves a single passage by ID.
func (m *MockIndex) GetPassage(ctx context.Context, id core.ID) (*core.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	passage, ok := m.passages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return passage, nil
}

// GetPassages retrieves multiple passages, skipping missing IDs.
func (m *MockIndex) GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	passages := make([]*core.Passage, 0, len(ids))
	for _, id := range ids {
		if passage, ok := m.passages[id]; ok {
			passages = append(passages, passage)
		}
	}
	return passages, nil
}

// Query returns the k highest-scoring passages by dot product,
// or delegates to QueryFunc when set.
func (m *MockIndex) Query(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error) {
	m.mu.Lock()
	m.queryCount++
	fn := m.QueryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, vector, k)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []core.IndexMatch
	for _, passage := range m.passages {
		if len(passage.Vector) == 0 {
			continue
		}
		var score float32
		n := min(len(vector), len(passage.Vector))
		for i := 0; i < n; i++ {
			score += vector[i] * passage.Vector[i]
		}
		matches = append(matches, core.IndexMatch{PassageId: passage.Id, Score: score})
	}
	slices.SortFunc(matches, func(a, b core.IndexMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// QueryCount returns the number of Query calls.
func (m *MockIndex) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCount
}

// Close is a no-op for the mock index.
func (m *MockIndex) Close() error {
	return nil
}
