package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/grid/internal/config"
	"github.com/raphi011/grid/internal/log"
	"github.com/raphi011/grid/internal/ui"
)

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse FILE",
		Short:   "Browse rows interactively",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Browse a JSON rows file in an interactive table.

Navigate with j/k, search with /, cycle sorting with s on the cursor
column, group with g, select with space, edit cells with enter.`,
		Example: `  grid browse people.json
  grid browse people.json -c ./grid.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			if !isatty.IsTerminal(os.Stderr.Fd()) {
				return fmt.Errorf("browse needs a terminal, use 'grid rows' for piped output")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows, err := loadRows(args[0])
			if err != nil {
				return err
			}
			l.Verbosef("loaded %d rows from %s\n", len(rows), args[0])

			eng, err := buildEngine(cfg, rows)
			if err != nil {
				return err
			}
			return ui.NewBrowser(eng).Run()
		},
	}
	return cmd
}
