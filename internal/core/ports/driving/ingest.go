package driving

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// IngestService loads a document, chunks it, and indexes the embeddings.
type IngestService interface {
	// Ingest runs the full pipeline for the document at path and returns
	// a summary of the completed run.
	Ingest(ctx context.Context, path string) (*domain.IngestRun, error)
}
