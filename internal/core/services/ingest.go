package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ansa-labs/ansa-cli/internal/chunker"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: load the document, split
// it into chunks, embed the chunks, and append them to the vector
// index. The index is append-only, so re-ingesting the same document
// grows the collection rather than replacing earlier entries.
type IngestService struct {
	loader   driven.LoaderRegistry
	splitter *chunker.Splitter
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	runStore driven.RunStore
}

// NewIngestService creates a new ingest service.
// The runStore parameter is optional (can be nil); without it run
// history is simply not kept.
func NewIngestService(
	loader driven.LoaderRegistry,
	splitter *chunker.Splitter,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	runStore driven.RunStore,
) *IngestService {
	return &IngestService{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		runStore: runStore,
	}
}

// Ingest runs the full pipeline for the document at path and returns a
// summary of the completed run. A document with no extractable text is
// rejected before anything reaches the index.
func (s *IngestService) Ingest(ctx context.Context, path string) (*domain.IngestRun, error) {
	logger.Section("Ingestion")
	logger.Debug("Document: %s", path)
	started := time.Now()

	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("%w: document %s has no extractable text", domain.ErrInvalidInput, path)
	}
	logger.Debug("Extracted %d characters from %s", len(doc.Content), doc.Title)

	chunks := s.splitter.Split(doc)
	logger.Info("Split into %d chunks (max %d chars, overlap %d)",
		len(chunks), s.splitter.ChunkSize(), s.splitter.Overlap())

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrDependency, len(embeddings), len(chunks))
	}

	now := time.Now()
	entries := make([]domain.IndexedEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = domain.IndexedEntry{
			ID:          chunk.ID,
			DocumentID:  doc.ID,
			DocumentURI: doc.URI,
			Position:    chunk.Position,
			Content:     chunk.Content,
			Embedding:   embeddings[i],
			CreatedAt:   now,
		}
	}

	inserted, err := s.index.Insert(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}
	logger.Info("Inserted %d entries", inserted)

	run := &domain.IngestRun{
		ID:          uuid.NewString(),
		DocumentURI: doc.URI,
		Chunks:      len(chunks),
		Entries:     inserted,
		Dimensions:  s.embedder.Dimensions(),
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}

	if s.runStore != nil {
		// Run history is best-effort; the entries are already indexed.
		if err := s.runStore.Record(ctx, run); err != nil {
			logger.Warn("Record ingest run: %v", err)
		}
	}

	return run, nil
}
