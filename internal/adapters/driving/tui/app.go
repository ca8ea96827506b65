package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/keymap"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/messages"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/styles"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/views/chat"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// App is the root Bubbletea model. It owns the conversation view and
// switches between it and the help screen.
type App struct {
	// ports provides access to the core services.
	ports *Ports

	// ctx is the context for service calls.
	ctx context.Context

	// styles contains the shared lipgloss styles.
	styles *styles.Styles

	// keymap contains the key bindings.
	keymap *keymap.KeyMap

	// chatView is the conversation view component.
	chatView *chat.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	chatView := chat.NewView(s, km, ports.Answer)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatView:    chatView,
		currentView: messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ansa - Document QA"),
		a.chatView.Init(),
		a.loadStats(),
	)
}

// loadStats reads the collection stats so the status bar can show how
// many chunks are available to answer from.
func (a *App) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := a.ports.Collection.Stats(a.ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}

		if a.currentView == messages.ViewHelp {
			// Any dismissing key returns to the conversation
			if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewChat
			}
			return a, nil
		}

		if keymap.Matches(msg.String(), a.keymap.Help) {
			a.currentView = messages.ViewHelp
			return a, nil
		}

		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.StatsLoaded:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward everything else (cursor blinks and the like).
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.chatView.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Question:
  (type)      Enter your question
  enter       Ask
  esc         Clear the input

Transcript:
  ↑/↓         Scroll older/newer turns

Sources:
  tab         Open/close the panel for the latest answer
  j/k, ↑/↓    Navigate chunks
  esc         Close the panel

Other:
  ctrl+h      Toggle this help
  ctrl+c      Quit

[esc] back to the conversation`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Turns returns the conversation so far.
func (a *App) Turns() []chat.Turn {
	return a.chatView.Turns()
}

// Question returns the text currently typed in the input.
func (a *App) Question() string {
	return a.chatView.Question()
}

// Thinking returns whether a question is in flight.
func (a *App) Thinking() bool {
	return a.chatView.Thinking()
}

// ShowingSources returns whether the sources panel is open.
func (a *App) ShowingSources() bool {
	return a.chatView.ShowingSources()
}

// SelectedSource returns the chunk selected in the sources panel.
func (a *App) SelectedSource() *domain.SearchResult {
	return a.chatView.SelectedSource()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}
