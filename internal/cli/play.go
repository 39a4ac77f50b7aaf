package cli

import (
	"os"

	"coding-quiz-game/internal/config"
	"coding-quiz-game/internal/logging"
	"coding-quiz-game/internal/tui"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs one game in the terminal against the configured bank.
func NewPlayCmd(configPath *string) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// The program owns the terminal.
			logging.Discard()

			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()
			return tui.Play(cmd.Context(), svc.quiz, os.Stdin, os.Stdout, tui.Options{NoColor: noColor})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colors")
	return cmd
}
