package insights

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name, typ string, wears int, favorite bool, seasons ...string) models.ClothingItem {
	return models.ClothingItem{
		ID:         uuid.New(),
		Name:       name,
		Type:       typ,
		WearCount:  wears,
		IsFavorite: favorite,
		Season:     pq.StringArray(seasons),
	}
}

func outfitOn(y int, m time.Month, d int) models.CalendarOutfit {
	return models.CalendarOutfit{ID: uuid.New(), Date: models.ToDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

func TestStats_Empty(t *testing.T) {
	s := Stats(nil, 0, 0)
	assert.Equal(t, ClosetStats{}, s)
	assert.Zero(t, s.AvgWearCount)
}

func TestStats(t *testing.T) {
	items := []models.ClothingItem{
		item("a", "shirt", 3, true),
		item("b", "shirt", 0, false),
		item("c", "jeans", 2, true),
	}

	s := Stats(items, 7, 4)

	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 5, s.TotalWears)
	assert.Equal(t, 2, s.Favorites)
	assert.Equal(t, 1, s.NeverWorn)
	assert.Equal(t, int64(7), s.TotalOutfits)
	assert.Equal(t, int64(4), s.TotalTags)
	assert.Equal(t, 1.7, s.AvgWearCount)
}

func TestMostWorn(t *testing.T) {
	items := []models.ClothingItem{
		item("never", "shirt", 0, false),
		item("low", "shirt", 1, false),
		item("high", "shirt", 8, false),
		item("mid-1", "shirt", 4, false),
		item("mid-2", "shirt", 4, false),
	}

	got := MostWorn(items, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].Name)
	assert.Equal(t, "mid-1", got[1].Name)
	assert.Equal(t, "mid-2", got[2].Name)

	all := MostWorn(items, 0)
	assert.Len(t, all, 4, "never-worn items are excluded")
	assert.Empty(t, MostWorn(nil, 5))
}

func TestSeasonalUsage(t *testing.T) {
	items := []models.ClothingItem{
		item("a", "shirt", 0, false, "summer", "spring"),
		item("b", "shirt", 0, false, "summer"),
		item("c", "coat", 0, false, "winter"),
		item("d", "boots", 0, false, "winter", "fall", "winter"),
	}

	got := SeasonalUsage(items)

	assert.Equal(t, []SeasonCount{
		{Season: "summer", Count: 2},
		{Season: "winter", Count: 2},
		{Season: "spring", Count: 1},
		{Season: "fall", Count: 1},
	}, got)
	assert.Empty(t, SeasonalUsage(nil))
}

func TestTypeDistribution(t *testing.T) {
	items := []models.ClothingItem{
		item("a", "shirt", 0, false),
		item("b", "jeans", 0, false),
		item("c", "shirt", 0, false),
		item("d", "coat", 0, false),
	}

	assert.Equal(t, []TypeCount{
		{Type: "shirt", Count: 2},
		{Type: "coat", Count: 1},
		{Type: "jeans", Count: 1},
	}, TypeDistribution(items))
}

func TestMonthlyActivity(t *testing.T) {
	now := time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)
	outfits := []models.CalendarOutfit{
		outfitOn(2024, time.March, 1),
		outfitOn(2024, time.March, 31),
		outfitOn(2024, time.January, 15),
		outfitOn(2023, time.October, 1),
		outfitOn(2023, time.September, 30), // outside the window
		outfitOn(2024, time.April, 1),      // outside the window
	}

	got := MonthlyActivity(outfits, 6, now)

	assert.Equal(t, []MonthCount{
		{Key: "2023-10", Month: "Oct 23", Count: 1},
		{Key: "2023-11", Month: "Nov 23", Count: 0},
		{Key: "2023-12", Month: "Dec 23", Count: 0},
		{Key: "2024-01", Month: "Jan 24", Count: 1},
		{Key: "2024-02", Month: "Feb 24", Count: 0},
		{Key: "2024-03", Month: "Mar 24", Count: 2},
	}, got)
}

func TestMonthlyActivity_AlwaysFullWindow(t *testing.T) {
	now := time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC)

	got := MonthlyActivity(nil, 0, now)

	require.Len(t, got, DefaultMonths)
	assert.Equal(t, "2024-03", got[0].Key)
	assert.Equal(t, "2024-08", got[5].Key)
	for _, m := range got {
		assert.Zero(t, m.Count)
	}

	start, end := ActivityWindow(6, now)
	assert.Equal(t, "2024-03-01", start.Format(models.DateLayout))
	assert.Equal(t, "2024-08-31", end.Format(models.DateLayout))
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, nil, 0, 0, Options{}, time.Now())

	assert.Zero(t, r.Stats.TotalItems)
	assert.Zero(t, r.Stats.AvgWearCount)
	assert.Empty(t, r.MostWorn)
	assert.Empty(t, r.SeasonalUsage)
	assert.Empty(t, r.TypeDistribution)
	assert.Len(t, r.MonthlyActivity, DefaultMonths)
}
