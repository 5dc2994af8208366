// Package insights derives closet statistics from already-loaded items and outfits.
// Every function tolerates empty input and never mutates its arguments.
package insights

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/rpupo63/virtual-closet-backend/models"
)

const (
	DefaultMostWornLimit = 10
	DefaultMonths        = 6
)

type ClosetStats struct {
	TotalItems   int     `json:"totalItems"`
	TotalWears   int     `json:"totalWears"`
	Favorites    int     `json:"favorites"`
	NeverWorn    int     `json:"neverWorn"`
	TotalOutfits int64   `json:"totalOutfits"`
	TotalTags    int64   `json:"totalTags"`
	AvgWearCount float64 `json:"avgWearCount"`
}

type SeasonCount struct {
	Season string `json:"season"`
	Count  int    `json:"count"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Key   string `json:"key"`
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Report bundles every insight shown on the insights page.
type Report struct {
	Stats            ClosetStats           `json:"stats"`
	MostWorn         []models.ClothingItem `json:"mostWorn"`
	SeasonalUsage    []SeasonCount         `json:"seasonalUsage"`
	TypeDistribution []TypeCount           `json:"typeDistribution"`
	MonthlyActivity  []MonthCount          `json:"monthlyActivity"`
}

// Stats totals the closet. outfitCount and tagCount come from the caller.
func Stats(items []models.ClothingItem, outfitCount, tagCount int64) ClosetStats {
	s := ClosetStats{
		TotalItems:   len(items),
		TotalOutfits: outfitCount,
		TotalTags:    tagCount,
	}
	for _, it := range items {
		s.TotalWears += it.WearCount
		if it.IsFavorite {
			s.Favorites++
		}
		if it.WearCount == 0 {
			s.NeverWorn++
		}
	}
	if s.TotalItems > 0 {
		s.AvgWearCount = math.Round(float64(s.TotalWears)/float64(s.TotalItems)*10) / 10
	}
	return s
}

// MostWorn returns up to limit worn items, highest wear count first.
// A limit of zero or less means DefaultMostWornLimit.
func MostWorn(items []models.ClothingItem, limit int) []models.ClothingItem {
	if limit <= 0 {
		limit = DefaultMostWornLimit
	}
	worn := make([]models.ClothingItem, 0, len(items))
	for _, it := range items {
		if it.WearCount > 0 {
			worn = append(worn, it)
		}
	}
	slices.SortStableFunc(worn, func(a, b models.ClothingItem) int {
		return b.WearCount - a.WearCount
	})
	if len(worn) > limit {
		worn = worn[:limit]
	}
	return worn
}

// SeasonalUsage counts items per season. Ties keep catalog order.
func SeasonalUsage(items []models.ClothingItem) []SeasonCount {
	counts := make(map[string]int)
	for _, it := range items {
		for _, s := range models.NormalizeSeasons(it.Season) {
			counts[s]++
		}
	}

	out := make([]SeasonCount, 0, len(counts))
	for season, n := range counts {
		out = append(out, SeasonCount{Season: season, Count: n})
	}
	slices.SortFunc(out, func(a, b SeasonCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(models.SeasonRank(a.Season), models.SeasonRank(b.Season)); c != 0 {
			return c
		}
		return cmp.Compare(a.Season, b.Season)
	})
	return out
}

// TypeDistribution counts items per type. Ties sort by type name.
func TypeDistribution(items []models.ClothingItem) []TypeCount {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Type]++
	}

	out := make([]TypeCount, 0, len(counts))
	for typ, n := range counts {
		out = append(out, TypeCount{Type: typ, Count: n})
	}
	slices.SortFunc(out, func(a, b TypeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return out
}

// ActivityWindow returns the first day of the oldest month and the last day of
// the current month for a trailing window of months ending at now.
func ActivityWindow(months int, now time.Time) (start, end time.Time) {
	if months <= 0 {
		months = DefaultMonths
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start = current.AddDate(0, -(months - 1), 0)
	end = current.AddDate(0, 1, -1)
	return start, end
}

// MonthlyActivity counts outfits per month over the trailing window ending at now's
// month. Every month in the window is present, oldest first, labelled like "Jun 24".
func MonthlyActivity(outfits []models.CalendarOutfit, months int, now time.Time) []MonthCount {
	start, _ := ActivityWindow(months, now)
	if months <= 0 {
		months = DefaultMonths
	}

	out := make([]MonthCount, months)
	index := make(map[string]int, months)
	for i := range out {
		m := start.AddDate(0, i, 0)
		out[i] = MonthCount{Key: m.Format("2006-01"), Month: m.Format("Jan 06")}
		index[out[i].Key] = i
	}

	for _, o := range outfits {
		if i, ok := index[o.Day().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

// Options tunes Build.
type Options struct {
	MostWornLimit int
	Months        int
}

// Build assembles a full report from a snapshot of one owner's data.
func Build(items []models.ClothingItem, windowOutfits []models.CalendarOutfit, outfitCount, tagCount int64, opts Options, now time.Time) Report {
	return Report{
		Stats:            Stats(items, outfitCount, tagCount),
		MostWorn:         MostWorn(items, opts.MostWornLimit),
		SeasonalUsage:    SeasonalUsage(items),
		TypeDistribution: TypeDistribution(items),
		MonthlyActivity:  MonthlyActivity(windowOutfits, opts.Months, now),
	}
}
