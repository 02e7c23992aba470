package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suderio/bestiary/internal/data"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the creatures found in the data directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slugs, err := data.NewLoader(a.cfg.DataDirs).List()
			if err != nil {
				return err
			}
			for _, s := range slugs {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}
