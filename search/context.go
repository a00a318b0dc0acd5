package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/relevit/core"
)

// DefaultContextChars bounds the formatted context block.
const DefaultContextChars = 32000

// truncationMarker ends a context block that was cut short.
const truncationMarker = "\n\n[Context truncated...]"

// FormatContext renders a search result as the context block of a
// generation prompt. Shared-library passages come first under their
// own heading, tenant passages second, with one numbering across both
// sections. The block is truncated to maxChars.
func FormatContext(result *core.SearchResult, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultContextChars
	}

	var shared, tenant []*core.SearchCandidate
	for _, candidate := range result.Candidates {
		if candidate.Passage.Source == core.SourceShared {
			shared = append(shared, candidate)
		} else {
			tenant = append(tenant, candidate)
		}
	}

	var b strings.Builder
	number := 1

	if len(shared) > 0 {
		b.WriteString("SHARED CONTEXT (Reference Library):\n\n")
		for _, candidate := range shared {
			writePassage(&b, number, candidate.Passage)
			number++
		}
	}
	if len(tenant) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("WORKSPACE CONTEXT (Tenant Documents):\n\n")
		for _, candidate := range tenant {
			writePassage(&b, number, candidate.Passage)
			number++
		}
	}

	context := b.String()
	if len(context) > maxChars {
		context = context[:maxChars] + truncationMarker
	}
	return context
}

func writePassage(b *strings.Builder, number int, passage *core.Passage) {
	source := passage.Origin["source"]
	if source == "" {
		source = "Document"
	}
	fmt.Fprintf(b, "[%d] %s\n%s\n\n", number, source, passage.Text)
}
