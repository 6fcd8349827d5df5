package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortStars  SortKey = "stars" // default, most stars first
	SortName   SortKey = "name"  // title A-Z, locale-aware
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
)

// SortKeys lists the supported keys in UI order.
var SortKeys = []SortKey{SortStars, SortName, SortNewest, SortOldest}

// ParseSortKey maps user input to a SortKey. Empty input selects SortStars.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortStars, nil
	case SortStars, SortName, SortNewest, SortOldest:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// ViewOptions are the browse selections owned by the caller.
type ViewOptions struct {
	Query        string
	Category     string // CategoryAll or "" disables the filter
	Sort         SortKey
	FeaturedOnly bool
}

// CategoryCount is one sidebar row.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogView is the render-ready result of BuildCatalogView.
type CatalogView struct {
	// Resources is the filtered, sorted subset. Never nil.
	Resources []Resource `json:"resources"`

	// Total is len(Resources), for the "N resources found" line.
	Total int `json:"total"`

	// AllCount is the size of the unfiltered input.
	AllCount int `json:"allCount"`

	// CategoryCounts counts the unfiltered input per category label.
	// "All" is not a key here, see AllCount.
	CategoryCounts map[string]int `json:"categoryCounts"`

	// Sidebar is CategoryCounts in display order, "All" first.
	Sidebar []CategoryCount `json:"sidebar"`
}

// BuildCatalogView filters, sorts and counts resources.
//
// It is a pure function of its inputs: all is never modified and the same
// inputs always produce the same output. Filters compose as a logical AND;
// the text filter runs first since it discards the most.
func BuildCatalogView(all []Resource, opts ViewOptions) CatalogView {
	query := strings.ToLower(opts.Query)

	visible := make([]Resource, 0, len(all))
	for i := range all {
		r := &all[i]
		if query != "" && !matchesQuery(r, query) {
			continue
		}
		if !isAllCategory(opts.Category) && r.Category != opts.Category {
			continue
		}
		if opts.FeaturedOnly && !r.Featured {
			continue
		}
		visible = append(visible, *r)
	}

	col := newCollator()
	SortResources(visible, opts.Sort, col)

	counts := CountByCategory(all)
	return CatalogView{
		Resources:      visible,
		Total:          len(visible),
		AllCount:       len(all),
		CategoryCounts: counts,
		Sidebar:        buildSidebar(counts, len(all), col),
	}
}

// CountByCategory counts resources per category label.
func CountByCategory(all []Resource) map[string]int {
	counts := make(map[string]int, len(BrowseCategories))
	for i := range all {
		counts[all[i].Category]++
	}
	return counts
}

// SortResources sorts in place with a stable sort, so equal keys keep
// their relative input order. An empty key sorts by stars. col may be nil.
func SortResources(rs []Resource, key SortKey, col *collate.Collator) {
	switch key {
	case SortName:
		if col == nil {
			col = newCollator()
		}
		slices.SortStableFunc(rs, func(a, b Resource) int {
			return col.CompareString(a.Title, b.Title)
		})
	case SortNewest:
		slices.SortStableFunc(rs, func(a, b Resource) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortOldest:
		slices.SortStableFunc(rs, func(a, b Resource) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	default:
		slices.SortStableFunc(rs, func(a, b Resource) int {
			return cmp.Compare(b.Stars, a.Stars)
		})
	}
}

func matchesQuery(r *Resource, lowered string) bool {
	if strings.Contains(strings.ToLower(r.Title), lowered) ||
		strings.Contains(strings.ToLower(r.Description), lowered) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), lowered) {
			return true
		}
	}
	return false
}

// buildSidebar lists "All", then the known browse categories, then any
// other label present in the data in collation order. Resources labelled
// with the sentinel or nothing at all only count towards "All".
func buildSidebar(counts map[string]int, total int, col *collate.Collator) []CategoryCount {
	sidebar := make([]CategoryCount, 0, len(BrowseCategories)+len(counts))
	sidebar = append(sidebar, CategoryCount{Name: CategoryAll, Count: total})

	known := make(map[string]bool, len(BrowseCategories))
	for _, c := range BrowseCategories[1:] {
		known[c] = true
		sidebar = append(sidebar, CategoryCount{Name: c, Count: counts[c]})
	}

	extra := make([]string, 0)
	for c := range counts {
		if !known[c] && !isAllCategory(strings.TrimSpace(c)) {
			extra = append(extra, c)
		}
	}
	slices.SortFunc(extra, col.CompareString)
	for _, c := range extra {
		sidebar = append(sidebar, CategoryCount{Name: c, Count: counts[c]})
	}

	return sidebar
}

// Collators keep internal buffers and are not safe for concurrent use,
// so every view gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}
