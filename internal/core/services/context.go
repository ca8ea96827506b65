package services

import (
	"strings"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// AssembleContext joins the retrieved chunk texts into the context
// block of the answer prompt, in rank order, separated by blank lines.
// Overlap between adjacent chunks is not deduplicated; the chunks are
// reproduced verbatim. Empty input yields an empty context, which
// signals "no relevant content found" to the prompt.
func AssembleContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	parts := make([]string, len(results))
	for i, result := range results {
		parts[i] = result.Entry.Content
	}
	return strings.Join(parts, "\n\n")
}
