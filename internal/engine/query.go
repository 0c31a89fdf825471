package engine

import "github.com/raphi011/grid/internal/view"

// SetGlobalSearch replaces the global search text. An empty string
// clears the search.
func (e *Engine) SetGlobalSearch(text string) {
	if e.query.Search == text {
		return
	}
	e.query.Search = text
	e.queryDirty = true
	e.notify(false, false)
}

// SetColumnFilter sets one column filter. An empty query removes the
// filter. Filters on unknown columns are accepted and simply have no
// effect until such a column is registered.
func (e *Engine) SetColumnFilter(key, query string) {
	if query == "" {
		if _, ok := e.query.Filters[key]; !ok {
			return
		}
		delete(e.query.Filters, key)
	} else {
		if e.query.Filters[key] == query {
			return
		}
		e.query.Filters[key] = query
	}
	e.queryDirty = true
	e.notify(false, false)
}

// SetSort replaces the multi-key sort. Keys that are not sortable
// (unknown, not marked sortable, or lacking a comparator) are dropped
// silently, never an error.
func (e *Engine) SetSort(keys []view.SortKey) {
	cols := e.cols.Snapshot()
	kept := make([]view.SortKey, 0, len(keys))
	for _, k := range keys {
		if cols.Sortable(k.Column) {
			kept = append(kept, k)
		}
	}
	e.query.Sort = kept
	e.queryDirty = true
	e.notify(false, false)
}

// Sort returns the active sort keys.
func (e *Engine) Sort() []view.SortKey {
	return append([]view.SortKey(nil), e.query.Sort...)
}

// SetGroupBy sets the grouping column. An empty key clears grouping.
func (e *Engine) SetGroupBy(key string) {
	if e.query.GroupBy == key {
		return
	}
	e.query.GroupBy = key
	e.queryDirty = true
	e.notify(false, false)
}

// SetPage sets pagination. Nil disables it. An out-of-range page
// derives to an empty view rather than erroring.
func (e *Engine) SetPage(p *view.Page) {
	if p == nil {
		e.query.Page = nil
	} else {
		page := *p
		e.query.Page = &page
	}
	e.queryDirty = true
	e.notify(false, false)
}
