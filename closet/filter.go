// Package closet filters and orders a user's clothing items for display.
package closet

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/models"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortMostWorn  SortKey = "most-worn"
	SortLeastWorn SortKey = "least-worn"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// SortKeys lists every supported key in display order.
var SortKeys = []SortKey{SortNewest, SortOldest, SortMostWorn, SortLeastWorn, SortNameAsc, SortNameDesc}

func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// Filter holds the active predicates. Zero-valued fields match everything.
type Filter struct {
	Type          string
	Season        string
	Color         string
	TagIDs        []uuid.UUID
	Search        string
	FavoritesOnly bool
}

// IsZero reports whether no predicate is active.
func (f Filter) IsZero() bool {
	return f.Type == "" && f.Season == "" && f.Color == "" &&
		len(f.TagIDs) == 0 && f.Search == "" && !f.FavoritesOnly
}

// Match reports whether item satisfies every active predicate.
// Tags use any-of semantics; the other fields require an exact match.
func (f Filter) Match(item models.ClothingItem) bool {
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.Season != "" && !item.HasSeason(f.Season) {
		return false
	}
	if f.Color != "" && (item.Color == nil || *item.Color != f.Color) {
		return false
	}
	if f.FavoritesOnly && !item.IsFavorite {
		return false
	}
	if len(f.TagIDs) > 0 && !hasAnyTag(item, f.TagIDs) {
		return false
	}
	if f.Search != "" && !matchesSearch(item, f.Search) {
		return false
	}
	return true
}

func hasAnyTag(item models.ClothingItem, want []uuid.UUID) bool {
	for _, id := range item.TagIDs() {
		if slices.Contains(want, id) {
			return true
		}
	}
	return false
}

func matchesSearch(item models.ClothingItem, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(item.Name), needle) {
		return true
	}
	if item.Brand != nil && strings.Contains(strings.ToLower(*item.Brand), needle) {
		return true
	}
	if item.Description != nil && strings.Contains(strings.ToLower(*item.Description), needle) {
		return true
	}
	return false
}

// Apply returns the items matching f, ordered by key. The input slice is not modified.
// An unknown key keeps the filtered items in input order.
func Apply(items []models.ClothingItem, f Filter, key SortKey) []models.ClothingItem {
	out := make([]models.ClothingItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}

	if cmp := comparator(key); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func comparator(key SortKey) func(a, b models.ClothingItem) int {
	switch key {
	case SortNewest:
		return func(a, b models.ClothingItem) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		return func(a, b models.ClothingItem) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortMostWorn:
		return func(a, b models.ClothingItem) int { return b.WearCount - a.WearCount }
	case SortLeastWorn:
		return func(a, b models.ClothingItem) int { return a.WearCount - b.WearCount }
	case SortNameAsc:
		return func(a, b models.ClothingItem) int { return strings.Compare(a.Name, b.Name) }
	case SortNameDesc:
		return func(a, b models.ClothingItem) int { return strings.Compare(b.Name, a.Name) }
	}
	return nil
}
