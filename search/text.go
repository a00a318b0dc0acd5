package search

import "strings"

// normalizeQuery canonicalizes query text for fingerprinting:
// lowercased, with runs of whitespace collapsed to single spaces.
// Word content is preserved so distinct queries stay distinct.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// excerpt truncates text for prompt construction, cutting at a word
// boundary where one is near the limit.
func excerpt(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > maxChars/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
