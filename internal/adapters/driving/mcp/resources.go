package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Ansa resources.
	uriScheme = "ansa://"

	// entryPageSize is how many entries are fetched per page when
	// resolving an entry by ID.
	entryPageSize = 200
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for collection statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collection",
		Name:        "collection",
		Description: "Statistics for the vector collection",
		MIMEType:    "application/json",
	}, s.handleCollectionResource)

	// Static resource for recent ingestion runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "ingest-runs",
		Description: "Recent document ingestion runs",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for chunk content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entries/{entryId}",
		Name:        "entry-content",
		Description: "Content of a specific indexed chunk",
		MIMEType:    "text/plain",
	}, s.handleEntryContentResource)
}

// handleCollectionResource returns statistics for the vector collection.
func (s *Server) handleCollectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Collection == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	stats, err := s.ports.Collection.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading collection stats: %w", err)
	}

	type statsInfo struct {
		Entries    int `json:"entries"`
		Dimensions int `json:"dimensions"`
	}

	data, err := json.MarshalIndent(statsInfo{
		Entries:    stats.Entries,
		Dimensions: stats.Dimensions,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRunsResource returns recent ingestion runs, newest first.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Collection == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	runs, err := s.ports.Collection.RecentRuns(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	// Build simplified run list.
	type runInfo struct {
		ID          string `json:"id"`
		DocumentURI string `json:"document_uri"`
		Chunks      int    `json:"chunks"`
		Entries     int    `json:"entries"`
		Dimensions  int    `json:"dimensions"`
		StartedAt   string `json:"started_at"`
		FinishedAt  string `json:"finished_at"`
	}

	infos := make([]runInfo, len(runs))
	for i, run := range runs {
		infos[i] = runInfo{
			ID:          run.ID,
			DocumentURI: run.DocumentURI,
			Chunks:      run.Chunks,
			Entries:     run.Entries,
			Dimensions:  run.Dimensions,
			StartedAt:   run.StartedAt.Format(time.RFC3339),
			FinishedAt:  run.FinishedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleEntryContentResource returns the content of a specific indexed chunk.
func (s *Server) handleEntryContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Collection == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract entryId from URI: ansa://entries/{entryId}
	entryID := extractEntryID(req.Params.URI)
	if entryID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.findEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	if entry == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     entry.Content,
		}},
	}, nil
}

// findEntry pages through the collection looking for the entry with the given
// ID. The collection port has no lookup by ID, so this scans in order.
func (s *Server) findEntry(ctx context.Context, id string) (*domain.IndexedEntry, error) {
	for offset := 0; ; offset += entryPageSize {
		entries, err := s.ports.Collection.Entries(ctx, entryPageSize, offset)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			if entries[i].ID == id {
				return &entries[i], nil
			}
		}
		if len(entries) < entryPageSize {
			return nil, nil
		}
	}
}

// extractEntryID extracts the entry ID from a URI like ansa://entries/{entryId}.
func extractEntryID(uri string) string {
	const prefix = uriScheme + "entries/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
