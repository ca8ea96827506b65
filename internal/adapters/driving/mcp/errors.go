// Package mcp provides an MCP (Model Context Protocol) server adapter for Ansa.
// It lets AI assistants ask questions against the ingested document and inspect
// the vector collection the answers are grounded on.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrRetrievalUnavailable is returned by the retrieve tool when no retrieval
// service was wired into the server.
var ErrRetrievalUnavailable = errors.New("mcp: retrieval service is not configured")
