package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// PassageIndex implements storage.PassageIndex for BadgerDB.
// Queries are brute-force dot products over the scope's passages,
// which is exact and fast enough for per-tenant corpus sizes.
type PassageIndex struct {
	backend *Backend
	scope   string
}

var _ storage.PassageIndex = (*PassageIndex)(nil)

// NewPassageIndex creates a passage index over one key scope.
// Scope names the index (e.g. "tenant:acme", "shared").
func NewPassageIndex(backend *Backend, scope string) (storage.PassageIndex, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &PassageIndex{
		backend: backend,
		scope:   scope,
	}, nil
}

// Close releases resources. PassageIndex has no resources of its own;
// the shared backend is closed by its owner.
func (idx *PassageIndex) Close() error {
	return nil
}

// Upsert adds or replaces passages in the index.
func (idx *PassageIndex) Upsert(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		for _, passage := range passages {
			if err := core.ValidatePassage(passage); err != nil {
				return err
			}

			// Use content-based ID if not set
			if passage.Id == 0 {
				passage.Id = core.IDFromContent(passage.Text)
			}

			// Set timestamps
			now := time.Now().UTC()
			if passage.InsertedAt.IsZero() {
				passage.InsertedAt = now
			}
			passage.UpdatedAt = now

			key := makePassageKey(idx.scope, passage.Id)
			value := storage.MarshalPassage(passage)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return passages, err
}

// Delete removes passages by their IDs.
func (idx *PassageIndex) Delete(ctx context.Context, ids ...core.ID) error {
	return idx.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePassageKey(idx.scope, id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPassage retrieves a single passage by ID.
func (idx *PassageIndex) GetPassage(ctx context.Context, id core.ID) (*core.Passage, error) {
	var passage *core.Passage
	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePassageKey(idx.scope, id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			passage, err = storage.UnmarshalPassage(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return passage, nil
}

// GetPassages retrieves multiple passages by their IDs.
// Missing passages are skipped without error.
func (idx *PassageIndex) GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error) {
	passages := make([]*core.Passage, 0, len(ids))
	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makePassageKey(idx.scope, id))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			var passage *core.Passage
			err = item.Value(func(val []byte) error {
				passage, err = storage.UnmarshalPassage(val)
				return err
			})
			if err != nil {
				return err
			}
			passages = append(passages, passage)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return passages, nil
}

// Query finds the k nearest passages to the given vector.
// Cosine similarity via dot product; vectors are stored normalized.
func (idx *PassageIndex) Query(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error) {
	var matches []core.IndexMatch

	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePassageScopePrefix(idx.scope)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var passage *core.Passage
			err := iter.Item().Value(func(val []byte) error {
				var err error
				passage, err = storage.UnmarshalPassage(val)
				return err
			})
			if err != nil {
				return err
			}
			if passage == nil || len(passage.Vector) == 0 {
				continue
			}

			matches = append(matches, core.IndexMatch{
				PassageId: passage.Id,
				Score:     dotProduct(vector, passage.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
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

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
