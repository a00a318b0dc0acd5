package mock

import (
	"context"
	"sync"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// MockUsageStore is an in-memory test double for storage.UsageStore.
type MockUsageStore struct {
	mu      sync.Mutex
	records []*core.UsageRecord
	state   core.BudgetState
	nextID  core.ID
}

var _ storage.UsageStore = (*MockUsageStore)(nil)

// NewMockUsageStore creates a usage store with the given monthly limit
// and zero spend.
// Note: Returns concrete type to allow test assertions.
func NewMockUsageStore(monthlyLimit float64) *MockUsageStore {
	now := time.Now().UTC()
	return &MockUsageStore{
		state: core.BudgetState{
			PeriodStart:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
			MonthlyLimit: monthlyLimit,
		},
		nextID: 1,
	}
}

// RecordUsage appends one usage record.
func (m *MockUsageStore) RecordUsage(ctx context.Context, record *core.UsageRecord) (*core.UsageRecord, error) {
	if err := core.ValidateUsageRecord(record); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if record.Id == 0 {
		record.Id = m.nextID
		m.nextID++
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	m.records = append(m.records, record)
	return record, nil
}

// ListUsage returns records with Timestamp >= since.
func (m *MockUsageStore) ListUsage(ctx context.Context, since time.Time) ([]*core.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*core.UsageRecord
	for _, record := range m.records {
		if !record.Timestamp.Before(since) {
			out = append(out, record)
		}
	}
	return out, nil
}

// GetBudgetState returns a copy of the current budget state.
func (m *MockUsageStore) GetBudgetState(ctx context.Context) (*core.BudgetState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.state
	return &state, nil
}

// UpdateBudgetState atomically adds delta to SpentToDate.
func (m *MockUsageStore) UpdateBudgetState(ctx context.Context, delta float64) (*core.BudgetState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.SpentToDate += delta
	state := m.state
	return &state, nil
}

// SetSpent pins SpentToDate so tests can start at a known spend.
func (m *MockUsageStore) SetSpent(spent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.SpentToDate = spent
}

// Records returns a snapshot of the appended usage records.
func (m *MockUsageStore) Records() []*core.UsageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.UsageRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Close is a no-op for the mock usage store.
func (m *MockUsageStore) Close() error {
	return nil
}
