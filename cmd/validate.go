package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suderio/bestiary/internal/log"
	"github.com/suderio/bestiary/internal/rules"
	"github.com/suderio/bestiary/internal/statblock"
	"github.com/suderio/bestiary/internal/text"
)

var ErrValidation = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var colorMode string

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check creature documents and structured text files",
		Long: `Validates each file. Creature documents (.yaml) must decode, render every
feature without interpolation errors and satisfy their "expect" assertions.
Structured text files (.json) must match the structured text schema.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := rules.NewRegistry()
			if err != nil {
				return err
			}
			l := log.WithOperation(log.WithComponent("cmd"), "validate")
			out := cmd.OutOrStdout()
			lbl, err := newLabels(colorMode, out)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range args {
				if err := a.validateFile(cmd, registry, path); err != nil {
					fmt.Fprintf(out, "%s %s\n%s\n", lbl.fail.Sprint("FAIL"), path, indent(err.Error()))
					errs = append(errs, err)
					continue
				}
				l.Debug("valid", "path", path)
				fmt.Fprintf(out, "%s   %s\n", lbl.ok.Sprint("ok"), path)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%w: %d of %d files: %w", ErrValidation, len(errs), len(args), errors.Join(errs...))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&colorMode, "color", "auto", "colorize results: auto, always or never")
	return cmd
}

func (a *app) validateFile(cmd *cobra.Command, registry *rules.Registry, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return text.Validate(b)
	}

	c, err := a.loadCreature(path)
	if err != nil {
		return err
	}
	var opts []statblock.Option
	if a.cfg.ShowText {
		opts = append(opts, statblock.WithFullText())
	}
	if _, err := statblock.Render(cmd.Context(), c, opts...); err != nil {
		return err
	}
	return registry.Check(c)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
