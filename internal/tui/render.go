package tui

import (
	"fmt"

	"coding-quiz-game/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorTitle   = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorCorrect = lipgloss.Color("34")
	colorWrong   = lipgloss.Color("160")
)

func renderStart(noColor bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		bold("Coding Quiz Game", noColor),
		stylize("Test your programming knowledge!", noColor, colorMuted),
		"",
		"Press enter to Start Quiz, q to quit",
	)
}

func renderPlaying(view domain.GameView, noColor bool) string {
	header := fmt.Sprintf("Question %d of %d | Score: %d/%d | %ds",
		view.QuestionNumber, view.TotalQuestions, view.Score, view.TotalQuestions, view.TimeRemaining)

	lines := []string{stylize(header, noColor, colorMuted), "", bold(view.Question, noColor), ""}
	for i, option := range view.Options {
		lines = append(lines, renderOption(view, i, option, noColor))
	}
	if view.Locked {
		color := colorWrong
		if view.Feedback == domain.FeedbackCorrect {
			color = colorCorrect
		}
		lines = append(lines, "", stylize(view.Feedback, noColor, color))
	} else {
		lines = append(lines, "", stylize("Press 1-4 to answer", noColor, colorMuted))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderOption(view domain.GameView, i int, option string, noColor bool) string {
	line := fmt.Sprintf("  %d) %s", i+1, option)
	switch {
	case view.IsCorrectOption(i):
		return stylize(line+" ✓", noColor, colorCorrect)
	case view.IsWrongSelection(i):
		return stylize(line+" ✗", noColor, colorWrong)
	}
	return line
}

func renderEnd(view domain.GameView, noColor bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		bold("Game Over!", noColor),
		fmt.Sprintf("Final Score: %d/%d", view.Score, view.TotalQuestions),
		stylize(fmt.Sprintf("%d%% correct", view.Percentage), noColor, colorMuted),
		"",
		"Press r to Play Again, q to quit",
	)
}

func bold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorTitle).Render(text)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
