package search

import (
	"github.com/poiesic/relevit/core"
)

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate stages during search.
type SearchMonitor interface {
	Start(query string)
	CacheHit(fingerprint core.ID)
	AfterHypothesis(hypothesis string)
	AfterIndexQuery(source core.SourceTag, matches []core.IndexMatch)
	IndexFailed(source core.SourceTag, err error)
	AfterMerge(candidates []*core.SearchCandidate)
	AfterRerank(candidates []*core.SearchCandidate)
	Finish(result *core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                      {}
func (n *noopMonitor) CacheHit(_ core.ID)                                  {}
func (n *noopMonitor) AfterHypothesis(_ string)                            {}
func (n *noopMonitor) AfterIndexQuery(_ core.SourceTag, _ []core.IndexMatch) {}
func (n *noopMonitor) IndexFailed(_ core.SourceTag, _ error)               {}
func (n *noopMonitor) AfterMerge(_ []*core.SearchCandidate)                {}
func (n *noopMonitor) AfterRerank(_ []*core.SearchCandidate)               {}
func (n *noopMonitor) Finish(_ *core.SearchResult)                         {}
