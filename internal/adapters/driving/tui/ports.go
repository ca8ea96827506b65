// Package tui provides an interactive terminal user interface for ansa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions grounded in the document.
	Answer driving.AnswerService

	// Retrieval inspects which chunks a question retrieves.
	Retrieval driving.RetrievalService

	// Ingest re-ingests the document on demand.
	Ingest driving.IngestService

	// Collection exposes the state of the vector collection.
	Collection driving.CollectionService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	answer driving.AnswerService,
	retrieval driving.RetrievalService,
	collection driving.CollectionService,
) *Ports {
	return &Ports{
		Answer:     answer,
		Retrieval:  retrieval,
		Collection: collection,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Collection == nil {
		return ErrMissingCollectionService
	}
	return nil
}
