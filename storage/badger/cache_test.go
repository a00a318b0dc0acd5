package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
)

func cachedResult(query string) *core.SearchResult {
	return &core.SearchResult{
		Query: query,
		Candidates: []*core.SearchCandidate{
			{
				Passage: &core.Passage{
					Id:     core.IDFromContent("cached passage"),
					Text:   "cached passage",
					Source: core.SourceTenant,
				},
				RawScore:     0.8,
				NormScore:    1.0,
				OriginWeight: 1.0,
			},
		},
		HypothesisUsed: true,
		Timestamp:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestSearchCacheRoundTrip(t *testing.T) {
	_, _, cache, _, backend, err := NewMemoryStores(50)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	fingerprint := core.IDFromContent("q=budget|hyde=true|rerank=false|shared=true|k=5")
	stored := cachedResult("budget")

	if err := cache.Store(ctx, fingerprint, stored, time.Hour); err != nil {
		t.Fatalf("Failed to store result: %v", err)
	}

	loaded, err := cache.Lookup(ctx, fingerprint)
	if err != nil {
		t.Fatalf("Failed to look up result: %v", err)
	}

	if loaded.Query != "budget" {
		t.Fatalf("Expected query 'budget', got %q", loaded.Query)
	}
	if !loaded.HypothesisUsed {
		t.Fatal("Expected HypothesisUsed to survive round trip")
	}
	if len(loaded.Candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(loaded.Candidates))
	}
	if loaded.Candidates[0].Passage.Text != "cached passage" {
		t.Fatalf("Expected candidate passage text, got %q", loaded.Candidates[0].Passage.Text)
	}
	if !loaded.Timestamp.Equal(stored.Timestamp) {
		t.Fatalf("Expected timestamp %v, got %v", stored.Timestamp, loaded.Timestamp)
	}
}

func TestSearchCacheMiss(t *testing.T) {
	_, _, cache, _, backend, err := NewMemoryStores(50)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	_, err = cache.Lookup(context.Background(), core.ID(42))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown fingerprint, got %v", err)
	}
}

func TestSearchCacheExpiry(t *testing.T) {
	_, _, cache, _, backend, err := NewMemoryStores(50)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	fingerprint := core.IDFromContent("expiring entry")

	// Badger expiry has one-second granularity; a sub-second TTL is
	// rounded up rather than expiring the entry on arrival.
	if err := cache.Store(ctx, fingerprint, cachedResult("ephemeral"), 50*time.Millisecond); err != nil {
		t.Fatalf("Failed to store result: %v", err)
	}

	if _, err := cache.Lookup(ctx, fingerprint); err != nil {
		t.Fatalf("Expected fresh entry to hit, got %v", err)
	}

	time.Sleep(2100 * time.Millisecond)

	_, err = cache.Lookup(ctx, fingerprint)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected expired entry to miss, got %v", err)
	}
}

func TestSearchCacheOverwrite(t *testing.T) {
	_, _, cache, _, backend, err := NewMemoryStores(50)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	fingerprint := core.IDFromContent("rewritten entry")

	if err := cache.Store(ctx, fingerprint, cachedResult("first"), time.Hour); err != nil {
		t.Fatalf("Failed to store first result: %v", err)
	}
	if err := cache.Store(ctx, fingerprint, cachedResult("second"), time.Hour); err != nil {
		t.Fatalf("Failed to store second result: %v", err)
	}

	loaded, err := cache.Lookup(ctx, fingerprint)
	if err != nil {
		t.Fatalf("Failed to look up result: %v", err)
	}
	if loaded.Query != "second" {
		t.Fatalf("Expected last write to win, got %q", loaded.Query)
	}
}
