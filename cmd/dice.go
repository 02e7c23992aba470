package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suderio/bestiary/internal/dice"
)

func newDiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dice EXPR...",
		Short: "Normalize dice expressions and print their averages",
		Long: `Parses each dice expression, merges terms that share a die and factor, and
prints the average followed by the normalized expression.`,
		Example: `  bestiary dice '2d6 + 1d6 + 3'
  bestiary dice '(1d8 × 2) - 1'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				e, err := dice.ParseExpression(arg)
				if err != nil {
					return fmt.Errorf("%q: %w", arg, err)
				}
				fmt.Fprintln(out, e.Display())
			}
			return nil
		},
	}
}
