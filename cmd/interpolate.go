package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suderio/bestiary/internal/engine"
	"github.com/suderio/bestiary/internal/text"
)

func newInterpolateCmd(a *app) *cobra.Command {
	var (
		mode     string
		vars     []string
		creature string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "interpolate TEXT",
		Short: "Interpolate a single piece of text",
		Long: `Interpolates TEXT and prints the result.

In inclusion mode TEXT uses "$<...>" and must produce a single plain string.
In statblock mode TEXT uses "${...}" and may contain paragraphs, sub-paragraphs,
bold and italic text. Values come from --var parameters and, with --creature,
from a creature document; the creature itself stays reachable as "creature".`,
		Example: `  bestiary interpolate --var name=Bob 'Hello, $<name>!'
  bestiary interpolate --mode statblock --creature goblin '${+atk + prof} to hit'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := engine.MapResolver{}
			for _, kv := range vars {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid --var %q, expected name=value", kv)
				}
				params[k] = v
			}

			var r engine.Resolver = params
			if creature != "" {
				c, err := a.loadCreature(creature)
				if err != nil {
					return err
				}
				r = engine.Overlay{Namespace: "creature", Base: c, Override: params}
			}

			opts := []engine.Option{engine.WithSourceName("<argument>")}
			if a.cfg.ShowText {
				opts = append(opts, engine.WithFullText())
			}
			out := cmd.OutOrStdout()

			switch mode {
			case "inclusion":
				s, err := engine.Inclusion(args[0], r, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			case "statblock":
				blocks, err := engine.StatBlock(args[0], r, opts...)
				if err != nil {
					return err
				}
				if !asJSON {
					fmt.Fprintln(out, text.PlainText(blocks))
					return nil
				}
				if blocks == nil {
					blocks = []text.Block{}
				}
				b, err := json.MarshalIndent(blocks, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			default:
				return fmt.Errorf("invalid --mode %q, expected inclusion or statblock", mode)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "inclusion", "interpolation mode: inclusion or statblock")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "parameter as name=value (repeatable)")
	cmd.Flags().StringVarP(&creature, "creature", "c", "", "creature name or file providing properties")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print structured text as JSON (statblock mode)")
	return cmd
}
