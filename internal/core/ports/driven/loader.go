package driven

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// LoaderRegistry resolves the right DocumentLoader for a path and runs
// it. The ingestion pipeline consumes this rather than a single loader
// so the document format stays a wiring concern.
type LoaderRegistry interface {
	// Load extracts the text of the document at path.
	Load(ctx context.Context, path string) (*domain.Document, error)
}

// DocumentLoader extracts text from a document file on disk.
// Each loader handles specific file extensions (e.g., PDF, Markdown).
type DocumentLoader interface {
	// Extensions returns the lowercase file extensions this loader
	// handles, leading dot included.
	Extensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific loaders should return 50-89.
	// Fallback loaders should return 1-9.
	Priority() int

	// Load reads the file and extracts its text content.
	// A missing or unreadable file wraps domain.ErrInvalidInput.
	Load(ctx context.Context, path string) (*domain.Document, error)
}
