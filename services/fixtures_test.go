package services

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/database/memstore"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/stretchr/testify/require"
)

const testOwner = "user-1"

// recordingCache remembers which views were invalidated.
type recordingCache struct {
	ViewCache

	mu          sync.Mutex
	invalidated []View
}

func (c *recordingCache) Invalidate(ownerID string, views ...View) {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, views...)
	c.mu.Unlock()
	c.ViewCache.Invalidate(ownerID, views...)
}

func (c *recordingCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = nil
}

func (c *recordingCache) views() []View {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.invalidated)
	slices.Sort(out)
	return slices.Compact(out)
}

type testEnv struct {
	store     *memstore.Store
	images    *memstore.ImageStore
	cache     *recordingCache
	wardrobe  *Wardrobe
	scheduler *Scheduler
	insights  *InsightsLoader
	prefs     *Preferences
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	inner, err := NewRistrettoViewCache(1000, 0)
	require.NoError(t, err)
	t.Cleanup(inner.Close)

	store := memstore.New()
	images := memstore.NewImageStore("https://cdn.test/clothing-images")
	cache := &recordingCache{ViewCache: inner}

	return &testEnv{
		store:     store,
		images:    images,
		cache:     cache,
		wardrobe:  NewWardrobe(store.Items(), store.Tags(), images, cache),
		scheduler: NewScheduler(store.Outfits(), store.Items(), cache),
		insights:  NewInsightsLoader(store.Items(), store.Tags(), store.Outfits(), cache),
		prefs:     NewPreferences(store.Preferences()),
	}
}

func (e *testEnv) createItem(t *testing.T, name string, mutate ...func(*ItemInput)) *models.ClothingItem {
	t.Helper()
	in := ItemInput{
		Name:     name,
		Type:     "shirt",
		ImageURL: "https://cdn.test/clothing-images/" + testOwner + "/" + name + ".jpg",
	}
	for _, m := range mutate {
		m(&in)
	}
	item, err := e.wardrobe.CreateItem(context.Background(), testOwner, in)
	require.NoError(t, err)
	return item
}

func (e *testEnv) createTag(t *testing.T, name string) *models.ClothingTag {
	t.Helper()
	tag, err := e.wardrobe.CreateTag(context.Background(), testOwner, TagInput{Name: name})
	require.NoError(t, err)
	return tag
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func positions(outfits []models.CalendarOutfit) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(outfits))
	for _, o := range outfits {
		out[o.ItemID] = o.Position
	}
	return out
}
