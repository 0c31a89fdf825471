package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/grid/internal/config"
	"github.com/raphi011/grid/internal/log"
	"github.com/raphi011/grid/internal/ui"
	"github.com/raphi011/grid/internal/view"
)

func newRowsCmd() *cobra.Command {
	var (
		search     string
		filters    []string
		sortFlags  []string
		groupBy    string
		page       int
		pageSize   int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "rows FILE",
		Short:   "Print rows through the view pipeline",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Print a JSON rows file as a table after applying search, filters,
sorting, grouping and pagination. Pass - to read rows from stdin.`,
		Example: `  grid rows people.json --sort name
  grid rows people.json -f status=active --sort v:desc
  grid rows people.json --search ada --json
  cat people.json | grid rows - --group status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows, err := loadRows(args[0])
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, rows)
			if err != nil {
				return err
			}

			if search != "" {
				eng.SetGlobalSearch(search)
			}
			colFilters, err := parseFilters(filters)
			if err != nil {
				return err
			}
			for col, query := range colFilters {
				eng.SetColumnFilter(col, query)
			}
			sortKeys, err := parseSort(sortFlags)
			if err != nil {
				return err
			}
			if len(sortKeys) > 0 {
				eng.SetSort(sortKeys)
				if got := eng.Sort(); len(got) < len(sortKeys) {
					l.Printf("Warning: dropped unsortable sort columns\n")
				}
			}
			if groupBy != "" {
				eng.SetGroupBy(groupBy)
			}
			if pageSize > 0 {
				eng.SetPage(&view.Page{Index: page, Size: pageSize})
			}

			result := eng.ViewResult()
			l.Verbosef("view has %d of %d rows\n", len(result.IDs), result.Total)

			if jsonOutput {
				return printJSON(eng, result)
			}
			// Styling degrades to the terminal's capability, down to
			// plain text when stdout is piped.
			return printTable(colorprofile.NewWriter(os.Stdout, os.Environ()), eng, result)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Global search text")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Column filter (column=query), repeatable")
	cmd.Flags().StringArrayVar(&sortFlags, "sort", nil, "Sort key (key or key:desc), repeatable")
	cmd.Flags().StringVarP(&groupBy, "group", "g", "", "Group by column")
	cmd.Flags().IntVar(&page, "page", 0, "Page index (with --page-size)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// printTable renders the view result to w, with group headers when
// grouping is active.
func printTable(w io.Writer, eng rowSource, result view.Result) error {
	cols := eng.Columns().Visible()

	if len(result.Groups) == 0 {
		cells := make([][]string, 0, len(result.IDs))
		for _, id := range result.IDs {
			row, err := eng.GetRow(id)
			if err != nil {
				continue
			}
			cells = append(cells, ui.RowCells(cols, row))
		}
		_, err := fmt.Fprintln(w, ui.RenderTable(cols, cells))
		return err
	}

	for _, g := range result.Groups {
		label := g.Key
		if label == "" {
			label = "(none)"
		}
		cells := make([][]string, 0, len(g.IDs))
		for _, id := range g.IDs {
			row, err := eng.GetRow(id)
			if err != nil {
				continue
			}
			cells = append(cells, ui.RowCells(cols, row))
		}
		if _, err := fmt.Fprintf(w, "%s (%d)\n%s\n", label, len(g.IDs), ui.RenderTable(cols, cells)); err != nil {
			return err
		}
	}
	return nil
}

// printJSON writes the view result as an array of row objects in view
// order, visible columns only.
func printJSON(eng rowSource, result view.Result) error {
	cols := eng.Columns().Visible()

	out := make([]map[string]any, 0, len(result.IDs))
	for _, id := range result.IDs {
		row, err := eng.GetRow(id)
		if err != nil {
			continue
		}
		obj := map[string]any{"id": string(row.ID)}
		for _, c := range cols {
			obj[c.Key] = row.Fields[c.Key]
		}
		out = append(out, obj)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
