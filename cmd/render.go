package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suderio/bestiary/internal/statblock"
	"github.com/suderio/bestiary/internal/text"
)

func newRenderCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "render CREATURE...",
		Short: "Render creature stat blocks",
		Long: `Renders each creature, given as a file path or as a name looked up in the
data directories, as plain text, JSON or a styled terminal box.`,
		Example: `  bestiary render goblin
  bestiary render --format json creatures/strahd.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []statblock.Option
			if a.cfg.ShowText {
				opts = append(opts, statblock.WithFullText())
			}

			blocks := make([]*statblock.StatBlock, 0, len(args))
			for _, ref := range args {
				c, err := a.loadCreature(ref)
				if err != nil {
					return err
				}
				sb, err := statblock.Render(cmd.Context(), c, opts...)
				if err != nil {
					return err
				}
				blocks = append(blocks, sb)
			}

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("width") {
				width = terminalWidth(out, width)
			}
			switch a.cfg.OutputFormat {
			case "json":
				for _, sb := range blocks {
					if err := checkSchema(sb); err != nil {
						return err
					}
				}
				var v any = blocks
				if len(blocks) == 1 {
					v = blocks[0]
				}
				b, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			case "terminal":
				for _, sb := range blocks {
					fmt.Fprintln(out, statblock.Terminal(sb, width))
				}
			default:
				for i, sb := range blocks {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprint(out, statblock.Plain(sb))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "", "output format: text, json or terminal")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "terminal box width (defaults to the terminal size)")
	_ = a.v.BindPFlag("output_format", cmd.Flags().Lookup("format"))
	return cmd
}

// checkSchema validates every rendered feature against the structured
// text schema.
func checkSchema(sb *statblock.StatBlock) error {
	sections := [][]statblock.Feature{sb.SpecialAbilities, sb.Actions, sb.Reactions}
	for _, fs := range sections {
		for _, f := range fs {
			b, err := json.Marshal(f.Text)
			if err != nil {
				return err
			}
			if err := text.Validate(b); err != nil {
				return fmt.Errorf("%s: %w", sb.Name, err)
			}
		}
	}
	return nil
}
