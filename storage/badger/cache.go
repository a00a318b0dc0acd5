package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

// SearchCache implements storage.SearchCache for BadgerDB.
// Entry expiry rides on badger's native TTL support: expired keys
// read as absent without any sweep of our own.
type SearchCache struct {
	backend *Backend
}

var _ storage.SearchCache = (*SearchCache)(nil)

// NewSearchCache creates a badger-backed search cache.
func NewSearchCache(backend *Backend) (storage.SearchCache, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &SearchCache{backend: backend}, nil
}

// Close releases resources. The shared backend is closed by its owner.
func (c *SearchCache) Close() error {
	return nil
}

// Lookup returns the cached result for a fingerprint.
func (c *SearchCache) Lookup(ctx context.Context, fingerprint core.ID) (*core.SearchResult, error) {
	var result *core.SearchResult
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(fingerprint))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalSearchResult(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Store caches a result under a fingerprint for ttl.
// Writes for identical fingerprints are idempotent; last write wins.
func (c *SearchCache) Store(ctx context.Context, fingerprint core.ID, result *core.SearchResult, ttl time.Duration) error {
	// Badger tracks expiry in whole seconds; anything shorter would
	// be expired the moment it lands.
	if ttl < time.Second {
		ttl = time.Second
	}
	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeCacheKey(fingerprint), storage.MarshalSearchResult(result)).
			WithTTL(ttl)
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
