package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrievalService = (*RetrieverService)(nil)

// RetrieverService answers "which chunks are relevant" by embedding the
// question and searching the vector index. Failures propagate unchanged
// so callers can tell "no relevant content" from "retrieval failed".
type RetrieverService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
}

// NewRetrieverService creates a new retriever service.
// A topK of zero or less falls back to domain.DefaultTopK.
func NewRetrieverService(embedder driven.EmbeddingService, index driven.VectorIndex, topK int) *RetrieverService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrieverService{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// TopK returns the configured default result count.
func (s *RetrieverService) TopK() int { return s.topK }

// Retrieve embeds the question and returns the k most similar chunks,
// best match first. A k of zero or less means the configured default.
func (s *RetrieverService) Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.topK
	}

	logger.Debug("Retrieve: %q (k=%d)", question, k)

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	logger.Debug("Question embedding: %d dimensions", len(embedding))

	results, err := s.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	logger.Debug("Retrieve: %d results", len(results))
	return results, nil
}
