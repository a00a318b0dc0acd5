package mock

import (
	"context"
	"sync"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

type cacheEntry struct {
	result    *core.SearchResult
	expiresAt time.Time
}

// MockCache is an in-memory test double for storage.SearchCache.
// Expired entries read as absent, mirroring the lazy-eviction
// semantics of the real backends.
type MockCache struct {
	mu          sync.Mutex
	entries     map[core.ID]cacheEntry
	lookupCount int
	storeCount  int
}

var _ storage.SearchCache = (*MockCache)(nil)

// NewMockCache creates an empty in-memory cache.
// Note: Returns concrete type to allow test assertions.
func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[core.ID]cacheEntry),
	}
}

// Lookup returns the cached result for a fingerprint.
func (m *MockCache) Lookup(ctx context.Context, fingerprint core.ID) (*core.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupCount++

	entry, ok := m.entries[fingerprint]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, storage.ErrNotFound
	}
	return entry.result, nil
}

// Store caches a result under a fingerprint for ttl.
func (m *MockCache) Store(ctx context.Context, fingerprint core.ID, result *core.SearchResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCount++

	m.entries[fingerprint] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// LookupCount returns the number of Lookup calls.
func (m *MockCache) LookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupCount
}

// StoreCount returns the number of Store calls.
func (m *MockCache) StoreCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeCount
}

// Expire force-expires an entry so tests can exercise TTL behavior.
func (m *MockCache) Expire(fingerprint core.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[fingerprint]; ok {
		entry.expiresAt = time.Now().Add(-time.Second)
		m.entries[fingerprint] = entry
	}
}

// Close is a no-op for the mock cache.
func (m *MockCache) Close() error {
	return nil
}
