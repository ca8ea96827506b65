package driving

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// AnswerService answers questions grounded in the indexed document.
type AnswerService interface {
	// Ask retrieves context for the question and generates an answer.
	// The answer reports whether the model grounded it in the context or
	// fell back to the refusal sentence.
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}
