package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/log"
	"github.com/suderio/bestiary/internal/open5e"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		limit int
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import monsters from Open5e as creature documents",
		Long: `Downloads monsters from the Open5e API, converts them into creature documents
and writes them to <out>/creatures/<name>.yaml. Existing files are kept unless
--force is given. Monsters that cannot be converted are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.DataDirs[0]
			}
			l := log.WithOperation(log.WithComponent("cmd"), "import")
			client := open5e.NewClient(a.cfg.Open5eURL)

			var bar *progressbar.ProgressBar
			var saved, skipped, failed int
			err := client.Monsters(cmd.Context(), limit, func(m open5e.Monster, total int) error {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionSetDescription("Importing monsters"),
						progressbar.OptionShowCount(),
					)
				}
				defer bar.Add(1)

				path := filepath.Join(out, "creatures", data.Slug(m.Name)+".yaml")
				if !force {
					if _, err := os.Stat(path); err == nil {
						skipped++
						return nil
					}
				}

				c, err := open5e.Convert(m)
				if err != nil {
					l.Warn("skipping monster", "name", m.Name, "err", err)
					failed++
					return nil
				}
				if _, err := open5e.Save(out, c); err != nil {
					return err
				}
				saved++
				return nil
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nImported %d monsters to %s (%d skipped, %d failed)\n", saved, out, skipped, failed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many monsters (0 imports all)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "data directory to write to (default is the first data directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing creature files")
	return cmd
}
