package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceTag identifies which index a passage belongs to.
type SourceTag int

const (
	// SourceTenant marks passages owned by a single tenant's private index.
	SourceTenant SourceTag = iota + 1
	// SourceShared marks passages from the corpus-wide shared index.
	SourceShared
)

// String returns the wire name of the source tag.
func (s SourceTag) String() string {
	switch s {
	case SourceTenant:
		return "tenant"
	case SourceShared:
		return "shared"
	default:
		return "unknown"
	}
}

// Passage is an indexed document chunk. Passages are immutable once
// indexed; they are created and deleted by the ingestion collaborator.
type Passage struct {
	Id         ID
	Text       string
	Vector     []float32 // Embedding vector (populated at indexing time)
	Source     SourceTag
	Origin     map[string]string // Origin metadata (e.g. "file", "category")
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// IndexMatch is a raw nearest-neighbor hit from a single index.
// Scores from different indexes are not comparable to each other.
type IndexMatch struct {
	PassageId ID
	Score     float32
}

// SearchCandidate is a per-query scored passage. Candidates exist only
// for the duration of a search and are discarded after the response.
type SearchCandidate struct {
	Passage      *Passage
	RawScore     float32 // Similarity score as reported by the source index
	NormScore    float32 // Min-max normalized score with origin weight applied
	OriginWeight float32 // Boost factor applied to the normalized score
	RerankScore  float32 // Second-pass relevance score (valid when Reranked)
	Reranked     bool
}

// Score returns the candidate's effective relevance: the rerank score
// when a second pass ran, otherwise the merged normalized score.
func (c *SearchCandidate) Score() float32 {
	if c.Reranked {
		return c.RerankScore
	}
	return c.NormScore
}

// SearchResult is the ordered outcome of one search call.
// Once stored, the cache owns the result.
type SearchResult struct {
	Query          string
	Candidates     []*SearchCandidate
	HypothesisUsed bool
	Timestamp      time.Time
}

// RouteDecision records which provider/model a routed call resolved to.
// It is computed per call and never persisted.
type RouteDecision struct {
	TaskType    string
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// UsageRecord is an append-only accounting row for one provider call.
// A record is written only after an actual provider attempt returned
// token usage data.
type UsageRecord struct {
	Id        ID
	Provider  string
	Model     string
	TaskType  string
	TokensIn  int
	TokensOut int
	Cost      float64
	Timestamp time.Time
}

// BudgetState is the mutable spend counter for one billing period.
// Every update to SpentToDate must be an atomic read-modify-write.
type BudgetState struct {
	PeriodStart  time.Time
	MonthlyLimit float64
	SpentToDate  float64
}

// Remaining returns the budget left in the period. Never negative.
func (b *BudgetState) Remaining() float64 {
	r := b.MonthlyLimit - b.SpentToDate
	if r < 0 {
		return 0
	}
	return r
}
