// Package view derives the displayed row order of a grid.
//
// Derive is a pure function from (row snapshot, column snapshot, query)
// to an ordered identity sequence. It never errors: empty results,
// filters on unknown columns, and out-of-range pages are normal
// steady-state conditions and are normalized silently.
package view

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/grid/internal/columns"
	"github.com/raphi011/grid/internal/rowstore"
)

// SearchMode selects how the global search matches rows.
type SearchMode int

const (
	// MatchSubstring keeps rows where any searchable cell contains the
	// query, case-insensitively.
	MatchSubstring SearchMode = iota
	// MatchFuzzy keeps rows whose searchable cells fuzzy-match the
	// query. Row order is preserved; fuzzy matching only widens what
	// counts as a hit, it does not rerank the view.
	MatchFuzzy
)

// SortKey is one entry of a multi-key sort.
type SortKey struct {
	Column string
	Desc   bool
}

// Page selects one fixed-size slice of the derived sequence.
type Page struct {
	Index int
	Size  int
}

// Query is the full view state feeding a derive pass. It has no
// dependency on row contents and can be built before any rows arrive.
type Query struct {
	Search     string
	SearchMode SearchMode
	Filters    map[string]string // column key -> filter query
	Sort       []SortKey
	GroupBy    string
	Page       *Page
}

// Group is one bucket of a grouped view.
type Group struct {
	Key string
	IDs []rowstore.ID
}

// Result is the derived view: the final flattened identity order and,
// when grouping is active, its partition into buckets. Total counts
// rows surviving search and filters, before pagination.
type Result struct {
	IDs    []rowstore.ID
	Groups []Group
	Total  int
}

// Derive runs the pipeline: search, column filters, grouping, sort,
// pagination. It reads only from the snapshots and is deterministic
// for a fixed (rows, cols, q).
func Derive(rows rowstore.Snapshot, cols columns.Snapshot, q Query) Result {
	ids := rows.Order()

	ids = applySearch(ids, rows, cols, q)
	ids = applyFilters(ids, rows, cols, q.Filters)

	grouped := q.GroupBy != ""
	if grouped {
		if _, ok := cols.Col(q.GroupBy); !ok {
			grouped = false
		}
	}

	var ordered []rowstore.ID
	if grouped {
		buckets := partition(ids, rows, q.GroupBy)
		for i := range buckets {
			sortIDs(buckets[i].IDs, rows, cols, q.Sort)
		}
		for _, g := range buckets {
			ordered = append(ordered, g.IDs...)
		}
	} else {
		ordered = append([]rowstore.ID(nil), ids...)
		sortIDs(ordered, rows, cols, q.Sort)
	}

	total := len(ordered)
	paged := applyPage(ordered, q.Page)

	res := Result{IDs: paged, Total: total}
	if grouped {
		// Repartition the paged slice so renderers get headers for
		// exactly the visible page. Bucket contiguity is preserved
		// because pagination slices the already group-ordered sequence.
		res.Groups = partition(paged, rows, q.GroupBy)
	}
	return res
}

// searchable returns the visible, filterable columns consulted by the
// global search.
func searchable(cols columns.Snapshot) []columns.Column {
	var out []columns.Column
	for _, c := range cols.Visible() {
		if c.Filterable {
			out = append(out, c)
		}
	}
	return out
}

func applySearch(ids []rowstore.ID, rows rowstore.Snapshot, cols columns.Snapshot, q Query) []rowstore.ID {
	if q.Search == "" {
		return ids
	}
	targets := searchable(cols)
	if len(targets) == 0 {
		return nil
	}

	if q.SearchMode == MatchFuzzy {
		return fuzzySearch(ids, rows, targets, q.Search)
	}

	needle := strings.ToLower(q.Search)
	var kept []rowstore.ID
	for _, id := range ids {
		r, ok := rows.Row(id)
		if !ok {
			continue
		}
		for _, c := range targets {
			cell := strings.ToLower(columns.FormatValue(r.Fields[c.Key]))
			if strings.Contains(cell, needle) {
				kept = append(kept, id)
				break
			}
		}
	}
	return kept
}

// rowSource adapts stringified rows to fuzzy.Source.
type rowSource []string

func (s rowSource) String(i int) string { return s[i] }
func (s rowSource) Len() int            { return len(s) }

func fuzzySearch(ids []rowstore.ID, rows rowstore.Snapshot, targets []columns.Column, query string) []rowstore.ID {
	haystack := make(rowSource, len(ids))
	for i, id := range ids {
		r, _ := rows.Row(id)
		parts := make([]string, len(targets))
		for j, c := range targets {
			parts[j] = columns.FormatValue(r.Fields[c.Key])
		}
		haystack[i] = strings.Join(parts, " ")
	}

	matched := make(map[int]bool)
	for _, m := range fuzzy.FindFrom(query, haystack) {
		matched[m.Index] = true
	}

	var kept []rowstore.ID
	for i, id := range ids {
		if matched[i] {
			kept = append(kept, id)
		}
	}
	return kept
}

func applyFilters(ids []rowstore.ID, rows rowstore.Snapshot, cols columns.Snapshot, filters map[string]string) []rowstore.ID {
	if len(filters) == 0 {
		return ids
	}
	// Filters on unknown or hidden columns are ignored.
	active := make([]columns.Column, 0, len(filters))
	queries := make([]string, 0, len(filters))
	for _, c := range cols.Visible() {
		if q, ok := filters[c.Key]; ok && q != "" {
			active = append(active, c)
			queries = append(queries, q)
		}
	}
	if len(active) == 0 {
		return ids
	}

	var kept []rowstore.ID
	for _, id := range ids {
		r, ok := rows.Row(id)
		if !ok {
			continue
		}
		match := true
		for i, c := range active {
			if !c.FilterMatch(r.Fields[c.Key], queries[i]) {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, id)
		}
	}
	return kept
}

// partition buckets ids by the stringified group column value, in
// first-seen order among the given rows.
func partition(ids []rowstore.ID, rows rowstore.Snapshot, groupBy string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, id := range ids {
		r, ok := rows.Row(id)
		if !ok {
			continue
		}
		key := columns.FormatValue(r.Fields[groupBy])
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].IDs = append(groups[i].IDs, id)
	}
	return groups
}

// sortIDs applies the multi-key stable sort in place. Keys that are
// unknown or lack a comparator are skipped, never an error.
func sortIDs(ids []rowstore.ID, rows rowstore.Snapshot, cols columns.Snapshot, keys []SortKey) {
	type sorter struct {
		key  string
		desc bool
		cmp  func(a, b any) int
	}
	var sorters []sorter
	for _, k := range keys {
		cmp, err := cols.Comparator(k.Column)
		if err != nil {
			continue
		}
		sorters = append(sorters, sorter{key: k.Column, desc: k.Desc, cmp: cmp})
	}
	if len(sorters) == 0 {
		return
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, _ := rows.Row(ids[i])
		b, _ := rows.Row(ids[j])
		for _, s := range sorters {
			c := s.cmp(a.Fields[s.key], b.Fields[s.key])
			if c == 0 {
				continue
			}
			if s.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func applyPage(ids []rowstore.ID, p *Page) []rowstore.ID {
	if p == nil || p.Size <= 0 {
		return ids
	}
	start := p.Index * p.Size
	if start < 0 || start >= len(ids) {
		return nil
	}
	end := start + p.Size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}
