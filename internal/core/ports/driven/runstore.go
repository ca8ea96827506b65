package driven

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// RunStore records completed ingestion runs for status reporting.
// This is an optional store - when nil, run history is simply not kept.
type RunStore interface {
	// Record persists a finished run.
	Record(ctx context.Context, run *domain.IngestRun) error

	// Recent returns the most recent runs, newest first.
	// A limit of zero or less means no limit.
	Recent(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
