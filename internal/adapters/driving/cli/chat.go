package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Labels and replies inside the question loop keep the product language
// so the terminal conversation reads uniformly.
const (
	chatQuestionLabel = "PERGUNTA: "
	chatAnswerLabel   = "RESPOSTA: "
	chatFailureReply  = "Erro ao processar sua pergunta. Tente novamente."
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Start an interactive question loop against the ingested document.

Every question runs the full retrieval pipeline and prints the generated
answer. Type 'sair', 'exit' or 'quit' (or press Ctrl+D) to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	cmd.Println("Faça sua pergunta:")
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		// An interrupt cancels the command context; leave quietly on
		// the next turn instead of surfacing a context error.
		if cmd.Context().Err() != nil {
			return nil
		}

		cmd.Print(chatQuestionLabel)
		if !scanner.Scan() {
			// EOF ends the session like an exit command would.
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExitCommand(question) {
			return nil
		}

		answer, err := answerService.Ask(cmd.Context(), question)
		if err != nil {
			// The loop survives provider failures; the user just asks again.
			logger.Debug("chat turn failed: %v", err)
			cmd.Println(chatAnswerLabel + chatFailureReply)
			cmd.Println()
			continue
		}

		cmd.Println(chatAnswerLabel + answer.Text)
		cmd.Println()
	}
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "sair", "exit", "quit":
		return true
	}
	return false
}
