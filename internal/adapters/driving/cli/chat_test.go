package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// runChatSession executes the chat command feeding input through the
// command's stdin and returns the combined output.
func runChatSession(t *testing.T, input string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
}

func TestChatCmd_Short(t *testing.T) {
	assert.Equal(t, "Ask questions interactively", chatCmd.Short)
}

func TestChatCmd_SessionFlow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := runChatSession(t, "Qual foi o faturamento?\nsair\n")

	require.NoError(t, err)
	assert.Contains(t, out, "Faça sua pergunta:")
	assert.Contains(t, out, "PERGUNTA: ")
	assert.Contains(t, out, "RESPOSTA: O faturamento foi de 10 milhões de reais.")
}

func TestChatCmd_ExitCommands(t *testing.T) {
	for _, exit := range []string{"sair", "exit", "quit", "SAIR", "Exit", "QUIT"} {
		t.Run(exit, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()

			calls := 0
			answerService = &mockAnswerService{
				AskFunc: func(_ context.Context, _ string) (*domain.Answer, error) {
					calls++
					return &domain.Answer{Text: "ok", Grounded: true}, nil
				},
			}

			out, err := runChatSession(t, exit+"\n")

			require.NoError(t, err)
			assert.Zero(t, calls, "exit words must not reach the pipeline")
			assert.NotContains(t, out, "RESPOSTA:")
		})
	}
}

func TestChatCmd_IgnoresEmptyInput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	calls := 0
	answerService = &mockAnswerService{
		AskFunc: func(_ context.Context, _ string) (*domain.Answer, error) {
			calls++
			return &domain.Answer{Text: "ok", Grounded: true}, nil
		},
	}

	out, err := runChatSession(t, "\n   \n\t\nsair\n")

	require.NoError(t, err)
	assert.Zero(t, calls)
	assert.NotContains(t, out, "RESPOSTA:")
}

func TestChatCmd_EOFEndsSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := runChatSession(t, "")

	require.NoError(t, err)
	assert.Contains(t, out, "Faça sua pergunta:")
}

func TestChatCmd_TrimsQuestions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var gotQuestion string
	answerService = &mockAnswerService{
		AskFunc: func(_ context.Context, question string) (*domain.Answer, error) {
			gotQuestion = question
			return &domain.Answer{Text: "ok", Grounded: true}, nil
		},
	}

	_, err := runChatSession(t, "  Qual foi o faturamento?  \nsair\n")

	require.NoError(t, err)
	assert.Equal(t, "Qual foi o faturamento?", gotQuestion)
}

func TestChatCmd_FailureKeepsLoopAlive(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	calls := 0
	answerService = &mockAnswerService{
		AskFunc: func(_ context.Context, _ string) (*domain.Answer, error) {
			calls++
			if calls == 1 {
				return nil, assert.AnError
			}
			return &domain.Answer{Text: "Resposta da segunda tentativa.", Grounded: true}, nil
		},
	}

	out, err := runChatSession(t, "primeira pergunta?\nsegunda pergunta?\nsair\n")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, out, "RESPOSTA: Erro ao processar sua pergunta. Tente novamente.")
	assert.Contains(t, out, "RESPOSTA: Resposta da segunda tentativa.")
}

func TestChatCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	answerService = nil

	_, err := runChatSession(t, "qualquer coisa\n")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "answer service not configured")
}

func TestIsExitCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"sair", true},
		{"exit", true},
		{"quit", true},
		{"SAIR", true},
		{"Quit", true},
		{"sair agora", false},
		{"pergunta", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, isExitCommand(tt.input))
		})
	}
}
