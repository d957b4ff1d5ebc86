package inventory

import "strings"

// CategoryAll is the filter value that disables category filtering.
const CategoryAll = "all"

// QueryKey identifies one cacheable page read. It is comparable; two keys are
// the same cache entry when every field is equal. An empty Category means no
// category filter.
type QueryKey struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// NewQueryKey builds a normalized key.
func NewQueryKey(page, pageSize int, search, category string) QueryKey {
	return QueryKey{Page: page, PageSize: pageSize, Search: search, Category: category}.Normalize()
}

// Normalize clamps Page to at least 1 and folds the "all" category into the
// empty sentinel so both spellings share a cache entry.
func (k QueryKey) Normalize() QueryKey {
	if k.Page < 1 {
		k.Page = 1
	}
	if k.Category == CategoryAll {
		k.Category = ""
	}
	return k
}

// TotalPages returns the page count for total records, never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Query filters snapshot by key and returns the requested page. It never
// mutates snapshot and keeps its order. Out of range pages are empty.
func Query(snapshot []Item, key QueryKey) Page {
	key = key.Normalize()

	needle := strings.ToLower(key.Search)
	filtered := make([]Item, 0, len(snapshot))
	for _, it := range snapshot {
		if needle != "" && !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		if key.Category != "" && it.Category != key.Category {
			continue
		}
		filtered = append(filtered, it)
	}

	page := Page{Items: []Item{}, Total: len(filtered)}
	if key.PageSize < 1 {
		return page
	}

	// Compare in page units first so huge page numbers cannot overflow.
	if page.Total == 0 || key.Page-1 > (page.Total-1)/key.PageSize {
		return page
	}
	start := (key.Page - 1) * key.PageSize
	end := page.Total
	if key.PageSize < page.Total-start {
		end = start + key.PageSize
	}
	page.Items = append(page.Items, filtered[start:end]...)
	return page
}
