package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	AnswerService     driving.AnswerService
	RetrievalService  driving.RetrievalService
	IngestService     driving.IngestService
	CollectionService driving.CollectionService
	SettingsService   driving.SettingsService
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Ansa.

The TUI provides a conversation view over the ingested document, with
the retrieved chunks behind each answer one keystroke away.

Controls:
  Enter    - Ask the typed question
  Tab      - Toggle the sources panel
  ↑/↓      - Scroll the conversation
  Esc      - Clear the input
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Build ports from configuration
	ports := &tui.Ports{}

	if tuiConfig != nil {
		ports.Answer = tuiConfig.AnswerService
		ports.Retrieval = tuiConfig.RetrievalService
		ports.Ingest = tuiConfig.IngestService
		ports.Collection = tuiConfig.CollectionService
		ports.Settings = tuiConfig.SettingsService
	}

	// Create the TUI app
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context())

	// Create and run the bubbletea program
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
