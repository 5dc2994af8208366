package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/insights"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightsLoaderReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.insights.now = func() time.Time { return time.Date(2024, time.June, 20, 15, 0, 0, 0, time.UTC) }

	shirt := env.createItem(t, "shirt", func(in *ItemInput) { in.Season = []string{"summer"} })
	jeans := env.createItem(t, "jeans", func(in *ItemInput) {
		in.Type = "jeans"
		in.Season = []string{"summer", "fall"}
		in.IsFavorite = true
	})
	env.createTag(t, "work")

	for _, d := range []time.Time{day(2024, time.June, 1), day(2024, time.June, 2)} {
		_, err := env.scheduler.Add(ctx, testOwner, shirt.ID, d, nil)
		require.NoError(t, err)
	}
	_, err := env.scheduler.Add(ctx, testOwner, jeans.ID, day(2024, time.April, 5), nil)
	require.NoError(t, err)
	// outside the 6 month window but still counted in the total
	_, err = env.scheduler.Add(ctx, testOwner, jeans.ID, day(2023, time.November, 5), nil)
	require.NoError(t, err)

	_, err = env.wardrobe.MarkWorn(ctx, testOwner, shirt.ID, day(2024, time.June, 1))
	require.NoError(t, err)
	_, err = env.wardrobe.MarkWorn(ctx, testOwner, shirt.ID, day(2024, time.June, 2))
	require.NoError(t, err)

	report, err := env.insights.Report(ctx, testOwner, insights.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.TotalItems)
	assert.Equal(t, 1, report.Stats.Favorites)
	assert.Equal(t, 1, report.Stats.NeverWorn)
	assert.Equal(t, 2, report.Stats.TotalWears)
	assert.Equal(t, int64(4), report.Stats.TotalOutfits)
	assert.Equal(t, int64(1), report.Stats.TotalTags)

	require.Len(t, report.MostWorn, 1)
	assert.Equal(t, shirt.ID, report.MostWorn[0].ID)

	require.NotEmpty(t, report.SeasonalUsage)
	assert.Equal(t, insights.SeasonCount{Season: "summer", Count: 2}, report.SeasonalUsage[0])

	require.Len(t, report.MonthlyActivity, insights.DefaultMonths)
	assert.Equal(t, "2024-01", report.MonthlyActivity[0].Key)
	assert.Equal(t, insights.MonthCount{Key: "2024-04", Month: "Apr 24", Count: 1}, report.MonthlyActivity[3])
	assert.Equal(t, insights.MonthCount{Key: "2024-06", Month: "Jun 24", Count: 2}, report.MonthlyActivity[5])
}

func TestInsightsLoaderCachesUntilInvalidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createItem(t, "shirt")

	first, err := env.insights.Report(ctx, testOwner, insights.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Stats.TotalItems)

	// written around the services, so nothing is invalidated
	require.NoError(t, env.store.Tags().Create(ctx, tagFor("direct")))
	cachedReport, err := env.insights.Report(ctx, testOwner, insights.Options{})
	require.NoError(t, err)
	assert.Same(t, first, cachedReport)

	env.createTag(t, "through-service")
	fresh, err := env.insights.Report(ctx, testOwner, insights.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.Stats.TotalTags)
}

func tagFor(name string) *models.ClothingTag {
	return &models.ClothingTag{UserID: testOwner, Name: name}
}

type failingCount struct {
	CalendarRepository
}

func (failingCount) Count(context.Context, string) (int64, error) {
	return 0, errors.New("statement timeout")
}

func TestInsightsLoaderPropagatesFailure(t *testing.T) {
	env := newTestEnv(t)
	loader := NewInsightsLoader(env.store.Items(), env.store.Tags(), failingCount{env.store.Outfits()}, nil)

	_, err := loader.Report(context.Background(), testOwner, insights.Options{})
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))

	_, err = loader.Report(context.Background(), "", insights.Options{})
	assert.True(t, errs.IsAuthRequired(err))
}
