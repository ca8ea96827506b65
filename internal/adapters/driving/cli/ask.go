package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

var (
	askShowSources bool
	askJSON        bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested document",
	Long: `Retrieves the chunks most similar to the question and asks the model
to answer using only that context. When the context does not contain
the answer, the model replies with the refusal sentence and the answer
is marked as not grounded.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "list the chunks behind the answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	answer, err := answerService.Ask(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrDependency) {
			// Provider failures surface in the product language; the
			// underlying cause stays in the verbose log.
			logger.Debug("ask failed: %v", err)
			return errors.New("Erro ao comunicar com serviço externo. Tente novamente.") //nolint:staticcheck // user-facing message
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	cmd.Println(answer.Text)
	if !answer.Grounded {
		cmd.Println()
		cmd.Println("(o documento não contém essa informação)")
	}
	if askShowSources {
		cmd.Println()
		printSources(cmd, answer.Sources)
	}

	return nil
}

// answerView is the JSON shape of an answer. Embeddings stay out of
// the output; they are transport baggage at this surface.
type answerView struct {
	Text     string       `json:"text"`
	Grounded bool         `json:"grounded"`
	Sources  []sourceView `json:"sources"`
}

type sourceView struct {
	ID       string  `json:"id"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	view := answerView{
		Text:     answer.Text,
		Grounded: answer.Grounded,
		Sources:  make([]sourceView, 0, len(answer.Sources)),
	}
	for i := range answer.Sources {
		view.Sources = append(view.Sources, sourceView{
			ID:       answer.Sources[i].Entry.ID,
			Position: answer.Sources[i].Entry.Position,
			Score:    answer.Sources[i].Score,
			Content:  answer.Sources[i].Entry.Content,
		})
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SearchResult) {
	if len(sources) == 0 {
		cmd.Println("No chunks were retrieved.")
		return
	}

	cmd.Println("Sources:")
	for i := range sources {
		cmd.Printf("  [%d] %.4f  %s\n", i+1, sources[i].Score, snippet(sources[i].Entry.Content, 80))
	}
}

// snippet returns the first line of text, shortened to limit bytes.
func snippet(text string, limit int) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			text = text[:i]
			break
		}
	}
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && text[cut]&0xC0 == 0x80 {
		cut-- // Do not split a UTF-8 sequence.
	}
	return text[:cut] + "..."
}
