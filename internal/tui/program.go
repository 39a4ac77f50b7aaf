package tui

import (
	"context"
	"io"

	"coding-quiz-game/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

// Play creates a game on service and runs it in the terminal until the player
// quits or ctx is canceled. The game is discarded afterwards.
func Play(ctx context.Context, service *app.QuizService, in io.Reader, out io.Writer, opts Options) error {
	initial, err := service.NewGame(ctx)
	if err != nil {
		return err
	}
	defer service.Discard(context.Background(), initial.GameID)

	updates, cancel, err := service.Subscribe(ctx, initial.GameID)
	if err != nil {
		return err
	}
	defer cancel()

	model := NewModel(ctx, initial, updates, service, opts)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err = program.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
