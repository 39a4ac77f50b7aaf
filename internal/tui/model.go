package tui

import (
	"context"
	"strconv"

	"coding-quiz-game/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Actions are the player transitions the terminal client can trigger.
type Actions interface {
	Start(ctx context.Context, gameID string) (domain.GameView, error)
	SelectAnswer(ctx context.Context, gameID string, option int) (domain.GameView, error)
	Restart(ctx context.Context, gameID string) (domain.GameView, error)
}

// Options configures the terminal model.
type Options struct {
	NoColor bool
}

// Model renders one game in the terminal. It never mutates game state itself;
// key presses become actions and the subscription delivers the resulting views.
type Model struct {
	ctx     context.Context
	gameID  string
	actions Actions
	updates <-chan domain.GameView
	view    domain.GameView
	err     error
	noColor bool
}

// NewModel constructs a model for the game behind updates.
func NewModel(ctx context.Context, initial domain.GameView, updates <-chan domain.GameView, actions Actions, opts Options) Model {
	return Model{
		ctx:     ctx,
		gameID:  initial.GameID,
		actions: actions,
		updates: updates,
		view:    initial,
		noColor: opts.NoColor,
	}
}

// ViewMsg carries a new game view from the subscription.
type ViewMsg struct {
	View domain.GameView
}

// Init waits for the first view.
func (m Model) Init() tea.Cmd {
	return waitForView(m.updates)
}

// Update maps keys to actions and consumes subscription views.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case ViewMsg:
		m.view = typed.View
		return m, waitForView(m.updates)
	case tea.KeyMsg:
		return m.handleKey(typed.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}

	switch m.view.Phase {
	case domain.PhaseStart:
		if key == "enter" || key == "s" {
			_, m.err = m.actions.Start(m.ctx, m.gameID)
		}
	case domain.PhasePlaying:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.view.Options) {
			_, m.err = m.actions.SelectAnswer(m.ctx, m.gameID, n-1)
		}
	case domain.PhaseEnd:
		if key == "enter" || key == "r" {
			_, m.err = m.actions.Restart(m.ctx, m.gameID)
		}
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.view.Phase {
	case domain.PhasePlaying:
		body = renderPlaying(m.view, m.noColor)
	case domain.PhaseEnd:
		body = renderEnd(m.view, m.noColor)
	default:
		body = renderStart(m.noColor)
	}
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, stylize("Error: "+m.err.Error(), m.noColor, colorWrong))
	}
	return body + "\n"
}

// waitForView blocks until the game publishes a view. A closed subscription quits.
func waitForView(updates <-chan domain.GameView) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return ViewMsg{View: view}
	}
}
