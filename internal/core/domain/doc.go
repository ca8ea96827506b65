// Package domain defines the core business entities for Ansa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Extracted text of a source document
//   - Chunk: An overlapping slice of a document's text
//   - IndexedEntry: A chunk together with its embedding, as stored
//   - SearchResult: A scored entry returned by similarity search
//   - Answer: A generated answer with its grounding verdict
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
