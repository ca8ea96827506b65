package mcp

import (
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions from the ingested document.
	Answer driving.AnswerService

	// Retrieval exposes raw chunk retrieval without answer generation.
	Retrieval driving.RetrievalService

	// Collection reports the state of the vector collection.
	Collection driving.CollectionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Retrieval and Collection are optional; the matching tool and
	// resources degrade when they are absent.
	return nil
}
