package cli

import (
	"fmt"
	"os"

	"coding-quiz-game/internal/bank"
	"github.com/spf13/cobra"
)

// NewValidateBankCmd checks a YAML question bank without starting anything.
func NewValidateBankCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate-bank",
		Short: "Validate a YAML question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			b, err := bank.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bank %q: %d questions OK\n", b.ID, len(b.Questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the YAML bank")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
