package badger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// UsageStore implements storage.UsageStore for BadgerDB.
// Usage records are append-only under time-ordered keys; budget state
// lives under one key per billing period. A mutex serializes budget
// read-modify-writes so concurrent spenders never lose an update.
type UsageStore struct {
	backend      *Backend
	seq          *badger.Sequence
	monthlyLimit float64

	budgetMu sync.Mutex
}

var _ storage.UsageStore = (*UsageStore)(nil)

// NewUsageStore creates a badger-backed usage store. monthlyLimit
// seeds the MonthlyLimit of each new billing period's state.
func NewUsageStore(backend *Backend, monthlyLimit float64) (storage.UsageStore, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	seq, err := backend.GetSequence(usageRecordIDSeq)
	if err != nil {
		return nil, err
	}
	return &UsageStore{
		backend:      backend,
		seq:          seq,
		monthlyLimit: monthlyLimit,
	}, nil
}

// Close releases the ID sequence. The shared backend is closed by its owner.
func (s *UsageStore) Close() error {
	return s.seq.Release()
}

// periodKey formats the billing period a timestamp falls in.
func periodKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// periodStart returns the first instant of the billing period.
func periodStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// RecordUsage appends one usage record.
func (s *UsageStore) RecordUsage(ctx context.Context, record *core.UsageRecord) (*core.UsageRecord, error) {
	if err := core.ValidateUsageRecord(record); err != nil {
		return nil, err
	}

	if record.Id == 0 {
		next, err := s.seq.Next()
		if err != nil {
			return nil, err
		}
		// Sequence starts at 0; IDs start at 1
		record.Id = core.ID(next + 1)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUsageKey(record.Timestamp.UnixMicro(), record.Id)
		if err := tx.Set(key, storage.MarshalUsageRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListUsage returns records with Timestamp >= since, oldest first.
func (s *UsageStore) ListUsage(ctx context.Context, since time.Time) ([]*core.UsageRecord, error) {
	var records []*core.UsageRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(usageRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := makePartialUsageKey(since.UTC().UnixMicro())
		for iter.Seek(start); iter.Valid(); iter.Next() {
			var record *core.UsageRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalUsageRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetBudgetState returns the budget state for the current billing
// period. A fresh period starts with zero spend.
func (s *UsageStore) GetBudgetState(ctx context.Context) (*core.BudgetState, error) {
	s.budgetMu.Lock()
	defer s.budgetMu.Unlock()
	return s.readBudgetState(time.Now())
}

// UpdateBudgetState atomically adds delta to the current period's
// SpentToDate. This is the sole mutation path for spend.
func (s *UsageStore) UpdateBudgetState(ctx context.Context, delta float64) (*core.BudgetState, error) {
	s.budgetMu.Lock()
	defer s.budgetMu.Unlock()

	now := time.Now()
	state, err := s.readBudgetState(now)
	if err != nil {
		return nil, err
	}
	state.SpentToDate += delta

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeBudgetKey(periodKey(now))
		if err := tx.Set(key, storage.MarshalBudgetState(state)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// readBudgetState loads the period state, creating a zero-spend state
// when the period has no record yet. Caller holds budgetMu.
func (s *UsageStore) readBudgetState(now time.Time) (*core.BudgetState, error) {
	var state *core.BudgetState
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeBudgetKey(periodKey(now)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			state, err = storage.UnmarshalBudgetState(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if state == nil {
		state = &core.BudgetState{
			PeriodStart:  periodStart(now),
			MonthlyLimit: s.monthlyLimit,
			SpentToDate:  0,
		}
	}
	return state, nil
}
