package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/messages"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

func newTestPorts() *Ports {
	return &Ports{
		Answer:     &MockAnswerService{},
		Retrieval:  &MockRetrievalService{},
		Collection: &MockCollectionService{},
	}
}

// typeQuestion types the given text into the question input.
func typeQuestion(app *App, text string) {
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewApp_Success(t *testing.T) {
	ports := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.Nil(t, app)
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := &Ports{
		Answer:     nil,
		Collection: &MockCollectionService{},
	}

	app, err := NewApp(ports)

	assert.ErrorIs(t, err, ErrMissingAnswerService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
}

func TestApp_Init(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	cmd := app.Init()

	// Init returns a batch command
	assert.NotNil(t, cmd)
}

func TestApp_Update_WindowSize(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := tea.WindowSizeMsg{Width: 80, Height: 24}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := tea.KeyMsg{Type: tea.KeyCtrlC}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_CharacterInput(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	typeQuestion(app, "qual o faturamento?")

	assert.Equal(t, "qual o faturamento?", app.Question())
}

func TestApp_Update_KeyMsg_Backspace(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	typeQuestion(app, "teste")
	app.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, "test", app.Question())
}

func TestApp_Update_KeyMsg_Escape_ClearsInput(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	typeQuestion(app, "teste")
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, app.Question())
}

func TestApp_Update_KeyMsg_Enter_AsksQuestion(t *testing.T) {
	asked := ""
	ports := newTestPorts()
	ports.Answer = &MockAnswerService{
		AskFunc: func(ctx context.Context, question string) (*domain.Answer, error) {
			asked = question
			return &domain.Answer{Text: "Foi de 10 milhões.", Grounded: true}, nil
		},
	}
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	typeQuestion(app, "qual o faturamento?")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, app.Thinking())

	// Execute the command and feed the message back
	result := cmd()
	answerMsg, ok := result.(messages.AnswerReceived)
	require.True(t, ok)
	assert.Equal(t, "qual o faturamento?", asked)

	app.Update(answerMsg)

	assert.False(t, app.Thinking())
	require.Len(t, app.Turns(), 1)
	assert.Equal(t, "Foi de 10 milhões.", app.Turns()[0].Answer.Text)
	assert.Empty(t, app.Question())
}

func TestApp_Update_KeyMsg_Enter_EmptyQuestion(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, app.Thinking())
}

func TestApp_Update_KeyMsg_Enter_WhileThinking(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	typeQuestion(app, "primeira")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	// A second enter while the first question is in flight is ignored
	typeQuestion(app, "segunda")
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestApp_Update_AnswerReceived_WithError(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	msg := messages.AnswerReceived{
		Question: "qual o faturamento?",
		Err:      errors.New("provider unavailable"),
	}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
	require.Len(t, app.Turns(), 1)
	assert.Error(t, app.Turns()[0].Err)
}

func TestApp_Update_StatsLoaded(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	msg := messages.StatsLoaded{Stats: domain.IndexStats{Entries: 42, Dimensions: 1536}}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	err := errors.New("something went wrong")
	msg := messages.ErrorOccurred{Err: err}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.ViewChanged{View: messages.ViewHelp}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}

func TestApp_Update_Quit(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.Quit{}
	_, cmd := app.Update(msg)

	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_CtrlH_TogglesHelp(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_Update_KeyMsg_InHelpView_Escape(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_Update_KeyMsg_InHelpView_OtherKeyIgnored(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	typeQuestion(app, "abc")

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Empty(t, app.Question())
}

func TestApp_Update_KeyMsg_Tab_OpensSources(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	// Tab before any answer does nothing
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, app.ShowingSources())

	// Answer a question so there are sources to show
	app.Update(messages.AnswerReceived{
		Question: "qual o faturamento?",
		Answer: &domain.Answer{
			Text:     "Foi de 10 milhões.",
			Grounded: true,
			Sources: []domain.SearchResult{
				{Entry: domain.IndexedEntry{ID: "entry-1", Content: "O faturamento foi de 10 milhões."}, Score: 0.92},
				{Entry: domain.IndexedEntry{ID: "entry-2", Content: "Os custos somaram 2 milhões."}, Score: 0.85},
			},
		},
	})

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, app.ShowingSources())

	// Navigate within the panel
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, app.SelectedSource())
	assert.Equal(t, "entry-2", app.SelectedSource().Entry.ID)

	// Tab again closes the panel
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, app.ShowingSources())
}

func TestApp_Update_KeyMsg_Escape_ClosesSources(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	app.Update(messages.AnswerReceived{
		Question: "pergunta",
		Answer:   &domain.Answer{Text: "resposta", Grounded: true},
	})
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, app.ShowingSources())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, app.ShowingSources())
}

func TestApp_View_NotReady(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	view := app.View()

	assert.Contains(t, view, "Initialising")
}

func TestApp_View_ChatView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	view := app.View()

	assert.Contains(t, view, "Ansa")
	assert.Contains(t, view, "Faça sua pergunta para começar.")
}

func TestApp_View_ChatView_WithTurns(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(120, 40)

	app.Update(messages.AnswerReceived{
		Question: "qual o faturamento?",
		Answer:   &domain.Answer{Text: "Foi de 10 milhões.", Grounded: true},
	})

	view := app.View()

	assert.Contains(t, view, "Pergunta:")
	assert.Contains(t, view, "Resposta:")
	assert.Contains(t, view, "qual o faturamento?")
}

func TestApp_View_HelpView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "ctrl+c")
}

func TestApp_SetDimensions(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	assert.False(t, app.Ready())

	app.SetDimensions(100, 50)

	assert.True(t, app.Ready())
}

func TestApp_LoadStats_Command(t *testing.T) {
	statsCalled := false
	ports := newTestPorts()
	ports.Collection = &MockCollectionService{
		StatsFunc: func(ctx context.Context) (domain.IndexStats, error) {
			statsCalled = true
			return domain.IndexStats{Entries: 7, Dimensions: 1536}, nil
		},
	}
	app, _ := NewApp(ports)

	result := app.loadStats()()

	statsMsg, ok := result.(messages.StatsLoaded)
	require.True(t, ok)
	assert.True(t, statsCalled)
	assert.Equal(t, 7, statsMsg.Stats.Entries)
}
