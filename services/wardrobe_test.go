package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/closet"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateItemValidatesBeforeStoring(t *testing.T) {
	tests := []struct {
		name  string
		in    ItemInput
		field string
	}{
		{name: "missing name", in: ItemInput{Name: "  ", Type: "shirt", ImageURL: "https://x/y.jpg"}, field: "name"},
		{name: "missing type", in: ItemInput{Name: "Tee", ImageURL: "https://x/y.jpg"}, field: "type"},
		{name: "unknown type", in: ItemInput{Name: "Tee", Type: "cape", ImageURL: "https://x/y.jpg"}, field: "type"},
		{name: "missing image", in: ItemInput{Name: "Tee", Type: "shirt"}, field: "imageUrl"},
		{name: "unknown season", in: ItemInput{Name: "Tee", Type: "shirt", ImageURL: "https://x/y.jpg", Season: []string{"monsoon"}}, field: "season[0]"},
		{name: "unknown color", in: ItemInput{Name: "Tee", Type: "shirt", ImageURL: "https://x/y.jpg", Color: ptr("teal")}, field: "color"},
		{name: "bad purchase date", in: ItemInput{Name: "Tee", Type: "shirt", ImageURL: "https://x/y.jpg", PurchaseDate: ptr("14/06/2024")}, field: "purchaseDate"},
		{name: "negative price", in: ItemInput{Name: "Tee", Type: "shirt", ImageURL: "https://x/y.jpg", PurchasePrice: ptr(-1.0)}, field: "purchasePrice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.wardrobe.CreateItem(context.Background(), testOwner, tt.in)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.field, apiErr.Field)

			items, err := env.store.Items().List(context.Background(), testOwner)
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestCreateItemStoresFieldsAndTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tag := env.createTag(t, "work")

	item, err := env.wardrobe.CreateItem(ctx, testOwner, ItemInput{
		Name:          "  Oxford shirt ",
		Type:          "shirt",
		ImageURL:      "https://cdn.test/a.jpg",
		Season:        []string{"fall", "spring", "fall"},
		Color:         ptr("blue"),
		Brand:         ptr("  "),
		PurchaseDate:  ptr("2024-03-01"),
		PurchasePrice: ptr(59.5),
		TagIDs:        []uuid.UUID{tag.ID, tag.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "Oxford shirt", item.Name)
	assert.Equal(t, testOwner, item.UserID)
	assert.Equal(t, []string{"fall", "spring"}, []string(item.Season))
	assert.Equal(t, "blue", *item.Color)
	assert.Nil(t, item.Brand)
	require.NotNil(t, item.PurchaseDate)
	assert.Equal(t, "2024-03-01", time.Time(*item.PurchaseDate).Format(models.DateLayout))
	assert.Zero(t, item.WearCount)
	require.Len(t, item.Tags, 1)
	assert.Equal(t, "work", item.Tags[0].Name)
}

func TestCreateItemUnknownTag(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.wardrobe.CreateItem(context.Background(), testOwner, ItemInput{
		Name: "Tee", Type: "t-shirt", ImageURL: "https://cdn.test/a.jpg", TagIDs: []uuid.UUID{uuid.New()},
	})
	assert.True(t, errs.IsNotFound(err))
}

func TestItemsAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "tee")

	_, err := env.wardrobe.GetItem(context.Background(), "someone-else", item.ID)
	assert.True(t, errs.IsNotFound(err))

	items, err := env.wardrobe.ListItems(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = env.wardrobe.ListItems(context.Background(), "")
	assert.True(t, errs.IsAuthRequired(err))
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	work := env.createTag(t, "work")
	casual := env.createTag(t, "casual")
	item := env.createItem(t, "tee", func(in *ItemInput) {
		in.Color = ptr("red")
		in.TagIDs = []uuid.UUID{work.ID}
	})

	updated, err := env.wardrobe.UpdateItem(ctx, testOwner, item.ID, ItemPatch{
		Name:   ptr("Linen tee"),
		Season: &[]string{"summer"},
		Color:  ptr(""),
		TagIDs: &[]uuid.UUID{casual.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Linen tee", updated.Name)
	assert.Equal(t, []string{"summer"}, []string(updated.Season))
	assert.Nil(t, updated.Color)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, casual.ID, updated.Tags[0].ID)
	assert.Equal(t, item.Type, updated.Type)

	_, err = env.wardrobe.UpdateItem(ctx, testOwner, item.ID, ItemPatch{Name: ptr("  ")})
	assert.True(t, errs.IsValidation(err))

	_, err = env.wardrobe.UpdateItem(ctx, testOwner, item.ID, ItemPatch{Type: ptr("cape")})
	assert.True(t, errs.IsValidation(err))

	_, err = env.wardrobe.UpdateItem(ctx, testOwner, uuid.New(), ItemPatch{Name: ptr("x")})
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteItemCascadesAndRemovesImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	uploader := NewImageUploader(env.images, 0)
	upload, err := uploader.Upload(ctx, testOwner, "tee.png", pngBytes)
	require.NoError(t, err)

	item := env.createItem(t, "tee", func(in *ItemInput) { in.ImageURL = upload.URL })
	_, err = env.scheduler.Add(ctx, testOwner, item.ID, day(2024, time.June, 14), nil)
	require.NoError(t, err)

	env.cache.reset()
	require.NoError(t, env.wardrobe.DeleteItem(ctx, testOwner, item.ID))
	assert.Equal(t, []View{ViewCalendar, ViewCloset, ViewInsights}, env.cache.views())

	_, ok := env.images.Object(upload.Path)
	assert.False(t, ok)

	outfits, err := env.scheduler.ListForDate(ctx, testOwner, day(2024, time.June, 14))
	require.NoError(t, err)
	assert.Empty(t, outfits)

	assert.True(t, errs.IsNotFound(env.wardrobe.DeleteItem(ctx, testOwner, item.ID)))
}

// failingItems fails every Update after running onUpdate.
type failingItems struct {
	ItemRepository
	onUpdate func()
}

func (f failingItems) Update(context.Context, string, uuid.UUID, map[string]any) (*models.ClothingItem, error) {
	if f.onUpdate != nil {
		f.onUpdate()
	}
	return nil, errors.New("connection reset by peer")
}

func TestToggleFavoriteRevertsCachedViewOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "tee")

	// warm the closet view
	_, err := env.wardrobe.ListItems(ctx, testOwner)
	require.NoError(t, err)

	var seenDuringWrite bool
	env.wardrobe.items = failingItems{
		ItemRepository: env.store.Items(),
		onUpdate: func() {
			v, ok := env.cache.Get(env.cache.Slot(testOwner, ViewCloset, closetItemsKey))
			require.True(t, ok)
			seenDuringWrite = v.([]models.ClothingItem)[0].IsFavorite
		},
	}

	_, err = env.wardrobe.ToggleFavorite(ctx, testOwner, item.ID, true)
	require.Error(t, err)
	assert.True(t, seenDuringWrite)

	items, err := env.wardrobe.ListItems(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsFavorite)
}

// untaggableItems fails every AddTag.
type untaggableItems struct {
	ItemRepository
}

func (untaggableItems) AddTag(context.Context, uuid.UUID, uuid.UUID) error {
	return errors.New("connection reset by peer")
}

func TestCreateItemTagFailureStillInvalidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tag := env.createTag(t, "work")

	// warm the closet view while it is empty
	items, err := env.wardrobe.ListItems(ctx, testOwner)
	require.NoError(t, err)
	require.Empty(t, items)

	env.cache.reset()
	env.wardrobe.items = untaggableItems{ItemRepository: env.store.Items()}
	_, err = env.wardrobe.CreateItem(ctx, testOwner, ItemInput{
		Name: "Tee", Type: "t-shirt", ImageURL: "https://cdn.test/a.jpg", TagIDs: []uuid.UUID{tag.ID},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was created but tagging failed")
	assert.Equal(t, []View{ViewCalendar, ViewCloset, ViewInsights}, env.cache.views())

	env.wardrobe.items = env.store.Items()
	items, err = env.wardrobe.ListItems(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tee", items[0].Name)
	assert.Empty(t, items[0].Tags)
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "tee")
	env.createItem(t, "jeans")

	_, err := env.wardrobe.ListItems(ctx, testOwner)
	require.NoError(t, err)

	env.cache.reset()
	updated, err := env.wardrobe.ToggleFavorite(ctx, testOwner, item.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)
	assert.Equal(t, []View{ViewCalendar, ViewInsights}, env.cache.views())

	favorites, err := env.wardrobe.Browse(ctx, testOwner, closet.Filter{FavoritesOnly: true}, closet.SortNewest)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, item.ID, favorites[0].ID)

	_, err = env.wardrobe.ToggleFavorite(ctx, testOwner, uuid.New(), true)
	assert.True(t, errs.IsNotFound(err))
}

func TestMarkWorn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "tee")

	_, err := env.wardrobe.MarkWorn(ctx, testOwner, item.ID, day(2024, time.June, 1))
	require.NoError(t, err)
	worn, err := env.wardrobe.MarkWorn(ctx, testOwner, item.ID, day(2024, time.June, 3))
	require.NoError(t, err)

	assert.Equal(t, 2, worn.WearCount)
	require.NotNil(t, worn.LastWornDate)
	assert.Equal(t, "2024-06-03", time.Time(*worn.LastWornDate).Format(models.DateLayout))
}

func TestTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag := env.createTag(t, "work")
	assert.Equal(t, models.DefaultTagColor, tag.Color)

	_, err := env.wardrobe.CreateTag(ctx, testOwner, TagInput{Name: "work"})
	require.Error(t, err)
	assert.True(t, errs.IsDuplicate(err))

	_, err = env.wardrobe.CreateTag(ctx, testOwner, TagInput{Name: "gym", Color: "green"})
	assert.True(t, errs.IsValidation(err))

	_, err = env.wardrobe.CreateTag(ctx, testOwner, TagInput{Name: ""})
	assert.True(t, errs.IsValidation(err))

	gym, err := env.wardrobe.CreateTag(ctx, testOwner, TagInput{Name: "gym", Color: "#22c55e"})
	require.NoError(t, err)

	tags, err := env.wardrobe.ListTags(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "gym", tags[0].Name)

	item := env.createItem(t, "tee")
	require.NoError(t, env.wardrobe.TagItem(ctx, testOwner, item.ID, gym.ID))
	err = env.wardrobe.TagItem(ctx, testOwner, item.ID, gym.ID)
	assert.True(t, errs.IsDuplicate(err))
	assert.True(t, errs.IsNotFound(env.wardrobe.TagItem(ctx, testOwner, item.ID, uuid.New())))

	require.NoError(t, env.wardrobe.UntagItem(ctx, testOwner, item.ID, gym.ID))
	require.NoError(t, env.wardrobe.UntagItem(ctx, testOwner, item.ID, gym.ID))

	require.NoError(t, env.wardrobe.TagItem(ctx, testOwner, item.ID, tag.ID))
	require.NoError(t, env.wardrobe.DeleteTag(ctx, testOwner, tag.ID))
	got, err := env.wardrobe.GetItem(ctx, testOwner, item.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}
