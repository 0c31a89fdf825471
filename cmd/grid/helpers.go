package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/config"
	"github.com/raphi011/grid/internal/engine"
	"github.com/raphi011/grid/internal/rowstore"
	"github.com/raphi011/grid/internal/view"
)

// rowSource is the engine surface the output printers need.
type rowSource interface {
	Columns() columns.Snapshot
	GetRow(id rowstore.ID) (rowstore.Row, error)
}

// loadRows reads rows from a JSON file: an array of objects, each with
// an "id" member; the remaining members become cell values. Pass "-"
// to read from stdin.
func loadRows(path string) ([]rowstore.Row, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open rows file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var raw []map[string]any
	if err := json.NewDecoder(in).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}

	rows := make([]rowstore.Row, 0, len(raw))
	for i, obj := range raw {
		id := columns.FormatValue(obj["id"])
		if id == "" {
			return nil, fmt.Errorf("row %d: missing id", i)
		}
		fields := make(map[string]any, len(obj)-1)
		for k, v := range obj {
			if k != "id" {
				fields[k] = v
			}
		}
		rows = append(rows, rowstore.Row{ID: rowstore.ID(id), Fields: fields})
	}
	return rows, nil
}

// buildEngine creates an engine from the config and loads the rows.
// When the config declares no columns they are inferred from the row
// fields: every key becomes a sortable, filterable text column.
func buildEngine(cfg config.Config, rows []rowstore.Row) (*engine.Engine, error) {
	defs := cfg.Defs()
	if len(defs) == 0 {
		defs = inferColumns(rows)
	}

	eng, err := engine.New(engine.Config{
		Columns:       defs,
		SelectionMode: cfg.SelectionMode(),
		SearchMode:    cfg.SearchMode(),
		RowExtent:     cfg.RowExtent,
		Overscan:      cfg.Overscan,
	})
	if err != nil {
		return nil, err
	}
	if cfg.PageSize > 0 {
		eng.SetPage(&view.Page{Size: cfg.PageSize})
	}
	if _, err := eng.UpsertRows(rows); err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	return eng, nil
}

// inferColumns derives column definitions from the union of row field
// keys, in alphabetical order.
func inferColumns(rows []rowstore.Row) []columns.Def {
	seen := make(map[string]bool)
	for _, r := range rows {
		for k := range r.Fields {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	defs := make([]columns.Def, len(keys))
	for i, k := range keys {
		defs[i] = columns.Def{Key: k, Sortable: true, Filterable: true}
	}
	return defs
}

// parseSort parses --sort flags of the form "key" or "key:desc".
func parseSort(flags []string) ([]view.SortKey, error) {
	keys := make([]view.SortKey, 0, len(flags))
	for _, f := range flags {
		col, dir, found := strings.Cut(f, ":")
		if col == "" {
			return nil, fmt.Errorf("invalid sort %q", f)
		}
		k := view.SortKey{Column: col}
		if found {
			switch dir {
			case "asc":
			case "desc":
				k.Desc = true
			default:
				return nil, fmt.Errorf("invalid sort direction %q in %q", dir, f)
			}
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// parseFilters parses --filter flags of the form "column=query".
func parseFilters(flags []string) (map[string]string, error) {
	filters := make(map[string]string, len(flags))
	for _, f := range flags {
		col, query, found := strings.Cut(f, "=")
		if !found || col == "" {
			return nil, fmt.Errorf("invalid filter %q, want column=query", f)
		}
		filters[col] = query
	}
	return filters, nil
}
