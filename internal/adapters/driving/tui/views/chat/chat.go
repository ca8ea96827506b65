// Package chat provides the conversation view, the TUI's main surface.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/components/input"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/components/list"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/components/status"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/keymap"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/messages"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/styles"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
)

// Turn is one question and its outcome in the conversation.
type Turn struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// View is the conversation view: a transcript, a question input, an
// optional panel with the chunks behind the latest answer, and a
// status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	sources   *list.SourceList
	statusbar *status.Bar

	answerService driving.AnswerService
	ctx           context.Context

	turns       []Turn
	thinking    bool
	showSources bool
	scroll      int // turns scrolled back from the latest

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new conversation view.
func NewView(s *styles.Styles, km *keymap.KeyMap, answerService driving.AnswerService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		sources:       list.NewSourceList(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the conversation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			v.statusbar.SetEntryCount(msg.Stats.Entries)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward everything else to the input so the cursor keeps blinking.
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.showSources {
		return v.handleSourcesKey(msg)
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.input.SetValue("")
		return v, nil

	case tea.KeyEnter:
		if v.thinking {
			return v, nil
		}
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.thinking = true
		v.statusbar.SetState(status.StateThinking)
		return v, v.ask(question)

	case tea.KeyTab:
		if len(v.turns) == 0 {
			return v, nil
		}
		v.showSources = true
		v.input.Blur()
		v.statusbar.SetSourcesOpen(true)
		return v, nil

	case tea.KeyUp:
		if v.scroll < len(v.turns)-1 {
			v.scroll++
		}
		return v, nil

	case tea.KeyDown:
		if v.scroll > 0 {
			v.scroll--
		}
		return v, nil
	}

	// Everything else is typing.
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleSourcesKey processes keyboard input while the sources panel is open.
func (v *View) handleSourcesKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		v.closeSources()
		return v, nil
	case tea.KeyUp:
		v.sources.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.sources.MoveDown()
		return v, nil
	default:
		// Handled below by string matching
	}

	switch msg.String() {
	case "k":
		v.sources.MoveUp()
	case "j":
		v.sources.MoveDown()
	case "q":
		v.closeSources()
	}
	return v, nil
}

func (v *View) closeSources() {
	v.showSources = false
	v.statusbar.SetSourcesOpen(false)
	v.input.Focus()
}

// ask runs the question through the pipeline off the UI loop.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.answerService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoAnswerService}
		}

		answer, err := v.answerService.Ask(v.ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// handleAnswer appends the turn and resets the input for the next question.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	v.scroll = 0
	v.turns = append(v.turns, Turn{Question: msg.Question, Answer: msg.Answer, Err: msg.Err})

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else if msg.Answer != nil {
		v.err = nil
		v.statusbar.SetMessage("")
		v.sources.SetSources(msg.Answer.Sources)
		if msg.Answer.Grounded {
			v.statusbar.SetState(status.StateAnswered)
		} else {
			v.statusbar.SetState(status.StateRefused)
		}
	}

	v.input.SetValue("")
	v.input.Focus()
}

// View renders the conversation view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	sections = append(sections, v.styles.Title.Render("Ansa"), "")
	sections = append(sections, v.renderTranscript(), "")

	if v.showSources {
		panel := v.styles.Border.Padding(0, 1).Render(v.sources.View())
		sections = append(sections, panel, "")
	}

	sections = append(sections, v.input.View(), "")
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript renders the window of turns that fits the height.
func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Faça sua pergunta para começar.")
	}

	avail := v.height - 8
	if v.showSources {
		avail -= v.sources.Height() + 2
	}

	// A turn takes roughly four lines once the answer wraps.
	visible := avail / 4
	if visible < 1 {
		visible = 1
	}

	end := len(v.turns) - v.scroll
	if end < 1 {
		end = 1
	}
	start := end - visible
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, (end-start)*3)
	for i := start; i < end; i++ {
		lines = append(lines, v.renderTurn(&v.turns[i]), "")
	}

	return strings.Join(lines, "\n")
}

// renderTurn formats one question and its outcome.
func (v *View) renderTurn(t *Turn) string {
	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}

	question := v.styles.Question.Render("Pergunta: ") + v.styles.Normal.Render(t.Question)

	var answer string
	switch {
	case t.Err != nil:
		answer = v.styles.Error.Width(wrap).
			Render("Resposta: Erro ao processar sua pergunta. Tente novamente.")
	case t.Answer != nil && !t.Answer.Grounded:
		answer = v.styles.Refusal.Width(wrap).Render("Resposta: " + t.Answer.Text)
	case t.Answer != nil:
		answer = v.styles.Answer.Width(wrap).Render("Resposta: " + t.Answer.Text)
	}

	return question + "\n" + answer
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.sources.SetDimensions(width-4, 12)
	v.statusbar.SetWidth(width)
}

// Reset clears the conversation and returns to input mode.
func (v *View) Reset() {
	v.turns = nil
	v.scroll = 0
	v.thinking = false
	v.err = nil
	v.closeSources()
	v.input.SetValue("")
	v.statusbar.Clear()
	v.sources.SetSources(nil)
}

// Turns returns the conversation so far.
func (v *View) Turns() []Turn {
	return v.turns
}

// LastTurn returns the latest turn, or nil before the first answer.
func (v *View) LastTurn() *Turn {
	if len(v.turns) == 0 {
		return nil
	}
	return &v.turns[len(v.turns)-1]
}

// Thinking returns whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// ShowingSources returns whether the sources panel is open.
func (v *View) ShowingSources() bool {
	return v.showSources
}

// SelectedSource returns the source selected in the panel, or nil.
func (v *View) SelectedSource() *domain.SearchResult {
	return v.sources.SelectedSource()
}

// Question returns the text currently typed in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the input text.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.input.Focused()
}

// Scroll returns how many turns back the transcript is scrolled.
func (v *View) Scroll() int {
	return v.scroll
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}
