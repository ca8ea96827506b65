package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input: a missing or
	// unreadable document, a document with no extractable text, a blank
	// question. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDependency indicates an external service (embedding provider,
	// LLM provider, vector index backend) failed after retries were
	// exhausted. The operation did not complete.
	ErrDependency = errors.New("dependency unavailable")

	// ErrDimensionMismatch indicates an embedding vector does not match
	// the dimensionality the collection was created with. This is a
	// consistency failure: it aborts the operation and is never retried.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidConfig indicates settings that cannot produce a working
	// pipeline, such as a chunk overlap that is not smaller than the
	// chunk size. Reported at startup, before any work begins.
	ErrInvalidConfig = errors.New("invalid configuration")
)
