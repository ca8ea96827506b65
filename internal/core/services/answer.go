package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// defaultAnswerPrompt grounds the model in the retrieved context and
// fixes the exact refusal sentence. It must stay byte-identical to the
// embedded default in the file prompt store, and its refusal sentence
// must match domain.DefaultRefusalSentence: the grounded flag is
// computed by comparing the model output against that sentence.
const defaultAnswerPrompt = `CONTEXTO:
%s

REGRAS:
- Responda somente com base no CONTEXTO.
- Se a informação não estiver explicitamente no CONTEXTO, responda:
  "Não tenho informações necessárias para responder sua pergunta."
- Nunca invente ou use conhecimento externo.
- Nunca produza opiniões ou interpretações além do que está escrito.

EXEMPLOS DE PERGUNTAS FORA DO CONTEXTO:
Pergunta: "Qual é a capital da França?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

Pergunta: "Quantos clientes temos em 2024?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

Pergunta: "Você acha isso bom ou ruim?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

PERGUNTA DO USUÁRIO:
%s

RESPONDA A "PERGUNTA DO USUÁRIO"`

// AnswerService produces answers grounded in the indexed document.
// It retrieves relevant chunks, renders them into a constrained prompt,
// and asks the LLM with deterministic sampling. Output equal to the
// refusal sentence, byte for byte, marks the answer as not grounded.
type AnswerService struct {
	retriever   driving.RetrievalService
	llm         driven.LLMService
	promptStore driven.PromptStore
	refusal     string
}

// NewAnswerService creates a new answer service.
// An empty refusal falls back to domain.DefaultRefusalSentence.
func NewAnswerService(retriever driving.RetrievalService, llm driven.LLMService, refusal string) *AnswerService {
	if refusal == "" {
		refusal = domain.DefaultRefusalSentence
	}
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
		refusal:   refusal,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses the embedded default prompt.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask retrieves context for the question and generates an answer,
// attaching the retrieved entries as sources.
func (s *AnswerService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	// Zero k means the retriever's configured default.
	results, err := s.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	answer, err := s.Answer(ctx, question, AssembleContext(results))
	if err != nil {
		return nil, err
	}
	answer.Sources = results
	return answer, nil
}

// Answer renders the prompt from the given context block and question
// and generates the answer. An empty context still goes to the model:
// the prompt's own rules force the refusal sentence, keeping a single
// code path for the refusal decision.
func (s *AnswerService) Answer(ctx context.Context, question, contextBlock string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt), contextBlock, question)
	logger.Debug("Answer prompt: %d chars, context %d chars", len(prompt), len(contextBlock))

	// Temperature zero is part of the contract: identical context and
	// question should reproduce the same answer.
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	// Providers often terminate the completion with a newline. Strip it
	// before the byte comparison so it cannot turn a refusal into a
	// grounded answer.
	text := strings.TrimRight(raw, "\n")
	grounded := text != s.refusal

	logger.Debug("Answer: %d chars, grounded=%t", len(text), grounded)

	return &domain.Answer{
		Text:     text,
		Grounded: grounded,
	}, nil
}

func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
