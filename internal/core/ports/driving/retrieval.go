package driving

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// RetrievalService finds indexed chunks relevant to a question.
type RetrievalService interface {
	// Retrieve embeds the question and returns the k most similar chunks,
	// best match first. A k of zero or less means the configured default.
	Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error)
}
