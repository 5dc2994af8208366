package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/insights"
	"github.com/rpupo63/virtual-closet-backend/models"
	"golang.org/x/sync/errgroup"
)

// InsightsLoader fetches one owner's snapshot concurrently and aggregates it.
type InsightsLoader struct {
	items   ItemRepository
	tags    TagRepository
	outfits CalendarRepository
	cache   ViewCache
	now     func() time.Time
}

func NewInsightsLoader(items ItemRepository, tags TagRepository, outfits CalendarRepository, cache ViewCache) *InsightsLoader {
	if cache == nil {
		cache = NoopViewCache{}
	}
	return &InsightsLoader{items: items, tags: tags, outfits: outfits, cache: cache, now: time.Now}
}

// Report returns the insights report, served from the insights view when cached.
func (l *InsightsLoader) Report(ctx context.Context, ownerID string, opts insights.Options) (*insights.Report, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	if opts.MostWornLimit <= 0 {
		opts.MostWornLimit = insights.DefaultMostWornLimit
	}
	if opts.Months <= 0 {
		opts.Months = insights.DefaultMonths
	}

	now := l.now()
	key := fmt.Sprintf("%s|limit=%d|months=%d", now.Format("2006-01"), opts.MostWornLimit, opts.Months)
	return cached(l.cache, ownerID, ViewInsights, key, func() (*insights.Report, error) {
		return l.load(ctx, ownerID, opts, now)
	})
}

func (l *InsightsLoader) load(ctx context.Context, ownerID string, opts insights.Options, now time.Time) (*insights.Report, error) {
	var (
		items         []models.ClothingItem
		windowOutfits []models.CalendarOutfit
		outfitCount   int64
		tagCount      int64
	)
	start, end := insights.ActivityWindow(opts.Months, now)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if items, err = l.items.List(gctx, ownerID); err != nil {
			return errs.NewDatabaseError("list", "clothing items", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if windowOutfits, err = l.outfits.ListForRange(gctx, ownerID, start, end); err != nil {
			return errs.NewDatabaseError("list", "calendar outfits", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if outfitCount, err = l.outfits.Count(gctx, ownerID); err != nil {
			return errs.NewDatabaseError("count", "calendar outfits", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tagCount, err = l.tags.Count(gctx, ownerID); err != nil {
			return errs.NewDatabaseError("count", "clothing tags", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := insights.Build(items, windowOutfits, outfitCount, tagCount, opts, now)
	return &report, nil
}
