// Package config loads grid configuration from a TOML file: the
// column definitions plus engine tuning (paging, windowing, search and
// selection modes).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/selection"
	"github.com/raphi011/grid/internal/view"
)

// Column declares one grid column in the config file.
type Column struct {
	Key        string `toml:"key"`
	Header     string `toml:"header"`
	Type       string `toml:"type"` // text, number, date, custom
	Sortable   bool   `toml:"sortable"`
	Filterable bool   `toml:"filterable"`
	Editable   bool   `toml:"editable"`
	Width      int    `toml:"width"`
	Align      string `toml:"align"` // left, right, center
	Frozen     bool   `toml:"frozen"`
}

// Config holds the grid configuration.
type Config struct {
	PageSize  int      `toml:"page_size"` // 0 = no pagination
	Overscan  int      `toml:"overscan"`
	RowExtent int      `toml:"row_extent"`
	Search    string   `toml:"search"`    // "substring" or "fuzzy"
	Selection string   `toml:"selection"` // "single" or "multi"
	Columns   []Column `toml:"columns"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		PageSize:  0,
		Overscan:  4,
		RowExtent: 1,
		Search:    "substring",
		Selection: "multi",
	}
}

// Load reads the config file at path. A missing file yields the
// defaults, matching how an unconfigured grid behaves.
func Load(path string) (Config, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if _, err := toml.DecodeFile(expanded, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values, returning an actionable message for
// the first violation.
func (c Config) Validate() error {
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must be >= 0, got %d", c.PageSize)
	}
	if c.Overscan < 0 {
		return fmt.Errorf("overscan must be >= 0, got %d", c.Overscan)
	}
	if c.RowExtent < 0 {
		return fmt.Errorf("row_extent must be >= 0, got %d", c.RowExtent)
	}
	switch c.Search {
	case "", "substring", "fuzzy":
	default:
		return fmt.Errorf("search must be %q or %q, got %q", "substring", "fuzzy", c.Search)
	}
	switch c.Selection {
	case "", "single", "multi":
	default:
		return fmt.Errorf("selection must be %q or %q, got %q", "single", "multi", c.Selection)
	}
	for i, col := range c.Columns {
		if col.Key == "" {
			return fmt.Errorf("columns[%d]: key is required", i)
		}
		switch col.Type {
		case "", "text", "number", "date", "custom":
		default:
			return fmt.Errorf("columns[%d] (%s): unknown type %q", i, col.Key, col.Type)
		}
		switch col.Align {
		case "", "left", "right", "center":
		default:
			return fmt.Errorf("columns[%d] (%s): unknown align %q", i, col.Key, col.Align)
		}
		if col.Width < 0 {
			return fmt.Errorf("columns[%d] (%s): width must be >= 0", i, col.Key)
		}
	}
	return nil
}

// Defs converts the configured columns to registry definitions.
func (c Config) Defs() []columns.Def {
	defs := make([]columns.Def, len(c.Columns))
	for i, col := range c.Columns {
		defs[i] = columns.Def{
			Key:        col.Key,
			Header:     col.Header,
			Type:       columns.Type(col.Type),
			Sortable:   col.Sortable,
			Filterable: col.Filterable,
			Editable:   col.Editable,
			Width:      col.Width,
			Align:      columns.Align(col.Align),
			Frozen:     col.Frozen,
		}
	}
	return defs
}

// SearchMode maps the search setting to the pipeline mode.
func (c Config) SearchMode() view.SearchMode {
	if c.Search == "fuzzy" {
		return view.MatchFuzzy
	}
	return view.MatchSubstring
}

// SelectionMode maps the selection setting to the machine mode.
func (c Config) SelectionMode() selection.Mode {
	if c.Selection == "single" {
		return selection.ModeSingle
	}
	return selection.ModeMulti
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
