package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/storage/memory"
	"github.com/ansa-labs/ansa-cli/internal/chunker"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
)

// End-to-end pipeline tests: real splitter and memory index, with a
// keyword embedder and a scripted model standing in for the providers.

const pipelineReport = "O faturamento da empresa no último trimestre foi de " +
	"10 milhões de reais.\n\nOs custos operacionais do mesmo período " +
	"somaram 2 milhões de reais."

// pipelineLoader implements driven.LoaderRegistry for a fixed document.
type pipelineLoader struct {
	content string
}

func (l *pipelineLoader) Load(_ context.Context, path string) (*domain.Document, error) {
	return &domain.Document{
		ID:      "doc-report",
		URI:     path,
		Title:   "report.txt",
		Content: l.content,
	}, nil
}

// pipelineEmbedder maps text to a fixed direction per topic so cosine
// ranking behaves like a real embedding space.
type pipelineEmbedder struct{}

func (pipelineEmbedder) vectorFor(text string) []float32 {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "faturamento"):
		return []float32{1, 0, 0}
	case strings.Contains(lower, "custos"):
		return []float32{0, 1, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func (e pipelineEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vectorFor(text), nil
}

func (e pipelineEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.vectorFor(text)
	}
	return vectors, nil
}

func (pipelineEmbedder) Dimensions() int              { return 3 }
func (pipelineEmbedder) ModelName() string            { return "keyword-embedder" }
func (pipelineEmbedder) Ping(_ context.Context) error { return nil }
func (pipelineEmbedder) Close() error                 { return nil }

// pipelineLLM answers the revenue question and refuses everything else,
// the way the prompt instructs a real model to.
type pipelineLLM struct {
	prompts []string
	opts    []driven.GenerateOptions
}

func (m *pipelineLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if strings.Contains(prompt, "França") {
		return domain.DefaultRefusalSentence + "\n", nil
	}
	return "O faturamento foi de 10 milhões de reais.\n", nil
}

func (m *pipelineLLM) ModelName() string            { return "scripted-llm" }
func (m *pipelineLLM) Ping(_ context.Context) error { return nil }
func (m *pipelineLLM) Close() error                 { return nil }

type pipelineFixture struct {
	ingest *IngestService
	answer *AnswerService
	index  *memory.Index
	llm    *pipelineLLM
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	index := memory.NewIndex()
	embedder := pipelineEmbedder{}
	splitter := chunker.New(chunker.WithChunkSize(100), chunker.WithOverlap(20))
	llm := &pipelineLLM{}

	ingest := NewIngestService(&pipelineLoader{content: pipelineReport}, splitter, embedder, index, memory.NewRunStore())
	retriever := NewRetrieverService(embedder, index, 0)
	answer := NewAnswerService(retriever, llm, "")

	return &pipelineFixture{ingest: ingest, answer: answer, index: index, llm: llm}
}

func TestPipeline_IngestThenAsk_GroundedAnswer(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	run, err := f.ingest.Ingest(ctx, "report.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, run.Chunks)
	assert.Equal(t, 2, run.Entries)
	assert.Equal(t, 3, run.Dimensions)

	stats, err := f.index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)

	answer, err := f.answer.Ask(ctx, "Qual foi o faturamento da empresa?")
	require.NoError(t, err)

	assert.True(t, answer.Grounded)
	assert.Equal(t, "O faturamento foi de 10 milhões de reais.", answer.Text)

	// The revenue chunk ranks first; both chunks reach the prompt.
	require.NotEmpty(t, answer.Sources)
	assert.Contains(t, answer.Sources[0].Entry.Content, "faturamento")
	require.Len(t, f.llm.prompts, 1)
	assert.Contains(t, f.llm.prompts[0], "faturamento")
	assert.Contains(t, f.llm.prompts[0], "custos")
	assert.Equal(t, 0.0, f.llm.opts[0].Temperature)
}

func TestPipeline_IngestThenAsk_OutOfContextQuestion(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	_, err := f.ingest.Ingest(ctx, "report.txt")
	require.NoError(t, err)

	answer, err := f.answer.Ask(ctx, "Qual é a capital da França?")
	require.NoError(t, err)

	// Retrieval still returns the nearest chunks; the model refuses.
	assert.False(t, answer.Grounded)
	assert.Equal(t, domain.DefaultRefusalSentence, answer.Text)
	assert.Len(t, answer.Sources, 2)
}

func TestPipeline_AskBeforeIngest(t *testing.T) {
	f := newPipelineFixture(t)

	answer, err := f.answer.Ask(context.Background(), "Qual foi o faturamento?")
	require.NoError(t, err)

	// Empty index means empty context: the model is still consulted.
	assert.Empty(t, answer.Sources)
	require.Len(t, f.llm.prompts, 1)
	assert.Contains(t, f.llm.prompts[0], "CONTEXTO:")
}

func TestPipeline_ReingestGrowsCollection(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	_, err := f.ingest.Ingest(ctx, "report.txt")
	require.NoError(t, err)
	_, err = f.ingest.Ingest(ctx, "report.txt")
	require.NoError(t, err)

	stats, err := f.index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Entries)

	// Duplicate chunks rank together and both reach the context.
	answer, err := f.answer.Ask(ctx, "Qual foi o faturamento da empresa?")
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 4)
}
