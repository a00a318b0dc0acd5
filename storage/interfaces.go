package storage

import (
	"context"
	"time"

	"github.com/poiesic/relevit/core"
)

// PassageIndex provides nearest-neighbor search over one corpus of
// passages. The core reads via Query; Upsert and Delete are owned by
// the ingestion collaborator (the seeder uses them).
// Implementations must be thread-safe and support concurrent access.
type PassageIndex interface {
	// Upsert adds or replaces passages in the index.
	// For passages with ID=0, generates content-based IDs from the text.
	// Sets InsertedAt timestamp if not already set.
	// Returns the passages with IDs and timestamps populated.
	Upsert(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// Delete removes passages by their IDs.
	// Returns ErrNotFound if any passage doesn't exist.
	Delete(ctx context.Context, ids ...core.ID) error

	// GetPassage retrieves a single passage by ID.
	// Returns ErrNotFound if the passage doesn't exist.
	GetPassage(ctx context.Context, id core.ID) (*core.Passage, error)

	// GetPassages retrieves multiple passages by their IDs.
	// Returns only the passages that exist (no error for missing passages).
	GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error)

	// Query finds the k nearest passages to the given vector.
	// Results are ordered by similarity score (highest first).
	// Scores are only comparable within one index, never across indexes.
	Query(ctx context.Context, vector []float32, k int) ([]core.IndexMatch, error)

	// Close closes the index and releases resources.
	Close() error
}

// SearchCache maps query fingerprints to search results with a TTL.
// Expired entries read as absent; eviction is lazy, no background
// sweep is required. Concurrent writes to the same fingerprint are
// idempotent, last write wins.
type SearchCache interface {
	// Lookup returns the cached result for a fingerprint.
	// Returns ErrNotFound on a miss or when the entry has expired.
	Lookup(ctx context.Context, fingerprint core.ID) (*core.SearchResult, error)

	// Store caches a result under a fingerprint for ttl.
	Store(ctx context.Context, fingerprint core.ID, result *core.SearchResult, ttl time.Duration) error

	// Close closes the cache and releases resources.
	Close() error
}

// UsageStore is the narrow accounting surface of the relational
// collaborator: append-only usage records plus the per-period budget
// state. Implementations must make UpdateBudgetState an atomic
// read-modify-write; it is the one place where a race has direct
// financial impact.
type UsageStore interface {
	// RecordUsage appends one usage record.
	// For records with ID=0, generates new IDs from sequence.
	// Sets Timestamp if not already set.
	// Returns the record with ID and timestamp populated.
	RecordUsage(ctx context.Context, record *core.UsageRecord) (*core.UsageRecord, error)

	// ListUsage returns records with Timestamp >= since, oldest first.
	ListUsage(ctx context.Context, since time.Time) ([]*core.UsageRecord, error)

	// GetBudgetState returns the budget state for the current billing
	// period, creating a fresh zero-spend state when the period has
	// rolled over.
	GetBudgetState(ctx context.Context) (*core.BudgetState, error)

	// UpdateBudgetState atomically adds delta to the current period's
	// SpentToDate and returns the updated state.
	UpdateBudgetState(ctx context.Context, delta float64) (*core.BudgetState, error)

	// Close closes the store and releases resources.
	Close() error
}
