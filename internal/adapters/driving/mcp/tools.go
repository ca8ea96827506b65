package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested document"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Text     string         `json:"text"`
	Grounded bool           `json:"grounded"`
	Sources  []SourceOutput `json:"sources,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to retrieve relevant chunks for"`
	K        int    `json:"k,omitempty" jsonschema:"maximum number of chunks to return (default 10)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []SourceOutput `json:"results"`
	Count   int            `json:"count"`
}

// SourceOutput represents a single retrieved chunk.
type SourceOutput struct {
	EntryID  string  `json:"entry_id"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the ingested document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the document chunks most similar to a question",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Text:     answer.Text,
		Grounded: answer.Grounded,
		Sources:  toSourceOutputs(answer.Sources),
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, RetrieveOutput{}, ErrRetrievalUnavailable
	}

	k := input.K
	if k <= 0 {
		k = 10
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, input.Question, k)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: toSourceOutputs(results),
		Count:   len(results),
	}

	return nil, output, nil
}

func toSourceOutputs(results []domain.SearchResult) []SourceOutput {
	out := make([]SourceOutput, len(results))
	for i := range results {
		out[i] = SourceOutput{
			EntryID:  results[i].Entry.ID,
			Position: results[i].Entry.Position,
			Score:    results[i].Score,
			Content:  results[i].Entry.Content,
		}
	}
	return out
}
