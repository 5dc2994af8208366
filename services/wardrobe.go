package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/calendar"
	"github.com/rpupo63/virtual-closet-backend/closet"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const closetItemsKey = "items"

// ItemInput is the payload for creating a clothing item.
type ItemInput struct {
	Name          string      `json:"name" validate:"required,max=200"`
	Type          string      `json:"type" validate:"required,clothing_type"`
	ImageURL      string      `json:"imageUrl" validate:"required"`
	ThumbnailURL  *string     `json:"thumbnailUrl"`
	Description   *string     `json:"description"`
	Season        []string    `json:"season" validate:"dive,season"`
	Color         *string     `json:"color" validate:"omitempty,clothing_color"`
	Brand         *string     `json:"brand"`
	PurchaseDate  *string     `json:"purchaseDate"`
	PurchasePrice *float64    `json:"purchasePrice" validate:"omitempty,gte=0"`
	Notes         *string     `json:"notes"`
	IsFavorite    bool        `json:"isFavorite"`
	TagIDs        []uuid.UUID `json:"tagIds"`
}

// ItemPatch carries the fields to change. Nil fields are left alone and blank
// optional strings clear the stored value.
type ItemPatch struct {
	Name          *string      `json:"name" validate:"omitempty,max=200"`
	Type          *string      `json:"type" validate:"omitempty,clothing_type"`
	ImageURL      *string      `json:"imageUrl"`
	ThumbnailURL  *string      `json:"thumbnailUrl"`
	Description   *string      `json:"description"`
	Season        *[]string    `json:"season" validate:"omitempty,dive,season"`
	Color         *string      `json:"color" validate:"omitempty,clothing_color"`
	Brand         *string      `json:"brand"`
	PurchaseDate  *string      `json:"purchaseDate"`
	PurchasePrice *float64     `json:"purchasePrice" validate:"omitempty,gte=0"`
	Notes         *string      `json:"notes"`
	IsFavorite    *bool        `json:"isFavorite"`
	TagIDs        *[]uuid.UUID `json:"tagIds"`
}

type TagInput struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Wardrobe manages a user's items and tags and keeps the cached views honest.
type Wardrobe struct {
	items     ItemRepository
	tags      TagRepository
	images    ImageStore
	cache     ViewCache
	validator *Validator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewWardrobe wires the service. images may be nil, in which case deleting an
// item leaves its picture in storage.
func NewWardrobe(items ItemRepository, tags TagRepository, images ImageStore, cache ViewCache) *Wardrobe {
	if cache == nil {
		cache = NoopViewCache{}
	}
	return &Wardrobe{
		items:     items,
		tags:      tags,
		images:    images,
		cache:     cache,
		validator: NewValidator(),
		logger:    log.With().Str("service", "wardrobe").Logger(),
		now:       time.Now,
	}
}

// ListItems returns every item of the owner, newest first, from the closet view.
func (w *Wardrobe) ListItems(ctx context.Context, ownerID string) ([]models.ClothingItem, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	return cached(w.cache, ownerID, ViewCloset, closetItemsKey, func() ([]models.ClothingItem, error) {
		items, err := w.items.List(ctx, ownerID)
		if err != nil {
			return nil, errs.NewDatabaseError("list", "clothing items", err)
		}
		return items, nil
	})
}

// Browse filters and sorts the owner's closet.
func (w *Wardrobe) Browse(ctx context.Context, ownerID string, f closet.Filter, key closet.SortKey) ([]models.ClothingItem, error) {
	items, err := w.ListItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return closet.Apply(items, f, key), nil
}

func (w *Wardrobe) GetItem(ctx context.Context, ownerID string, id uuid.UUID) (*models.ClothingItem, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	item, err := w.items.Get(ctx, ownerID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "clothing item", err)
	}
	if item == nil {
		return nil, errs.NewNotFound("clothing item")
	}
	return item, nil
}

// CreateItem validates in before touching storage, stores the item and links its tags.
func (w *Wardrobe) CreateItem(ctx context.Context, ownerID string, in ItemInput) (*models.ClothingItem, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := w.validator.Validate(in); err != nil {
		return nil, err
	}
	purchaseDate, err := parseOptionalDate(in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	for _, tagID := range in.TagIDs {
		if err := w.ensureTag(ctx, ownerID, tagID); err != nil {
			return nil, err
		}
	}

	item := &models.ClothingItem{
		UserID:        ownerID,
		Name:          in.Name,
		Description:   nilIfBlank(in.Description),
		ImageURL:      in.ImageURL,
		ThumbnailURL:  nilIfBlank(in.ThumbnailURL),
		Type:          in.Type,
		Season:        models.NormalizeSeasons(in.Season),
		Color:         nilIfBlank(in.Color),
		Brand:         nilIfBlank(in.Brand),
		PurchaseDate:  purchaseDate,
		PurchasePrice: in.PurchasePrice,
		Notes:         nilIfBlank(in.Notes),
		IsFavorite:    in.IsFavorite,
	}
	if err := w.items.Create(ctx, item); err != nil {
		return nil, errs.NewDatabaseError("create", "clothing item", err)
	}
	// The row exists from here on, even if tagging fails below.
	w.cache.Invalidate(ownerID, AllViews...)

	for _, tagID := range uniqueIDs(in.TagIDs) {
		if err := w.items.AddTag(ctx, item.ID, tagID); err != nil {
			partial := *errs.NewDatabaseError("tag", "clothing item", err)
			partial.Details = fmt.Sprintf("Clothing item %s was created but tagging failed: %s", item.ID, partial.Details)
			return nil, &partial
		}
	}

	return w.GetItem(ctx, ownerID, item.ID)
}

// UpdateItem applies patch and returns the stored item.
func (w *Wardrobe) UpdateItem(ctx context.Context, ownerID string, id uuid.UUID, patch ItemPatch) (*models.ClothingItem, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	fields, err := w.patchFields(patch)
	if err != nil {
		return nil, err
	}

	existing, err := w.GetItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.TagIDs != nil {
		if err := w.syncTags(ctx, ownerID, existing, *patch.TagIDs); err != nil {
			return nil, err
		}
	}

	if len(fields) > 0 {
		fields["updated_at"] = w.now()
		if _, err := w.items.Update(ctx, ownerID, id, fields); err != nil {
			return nil, errs.NewDatabaseError("update", "clothing item", err)
		}
	}

	w.cache.Invalidate(ownerID, AllViews...)
	return w.GetItem(ctx, ownerID, id)
}

// DeleteItem removes the item, its tag links and calendar entries, then its image.
func (w *Wardrobe) DeleteItem(ctx context.Context, ownerID string, id uuid.UUID) error {
	item, err := w.GetItem(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := w.items.Delete(ctx, ownerID, id); err != nil {
		return errs.NewDatabaseError("delete", "clothing item", err)
	}
	w.cache.Invalidate(ownerID, AllViews...)

	if w.images == nil {
		return nil
	}
	for _, url := range []string{item.ImageURL, deref(item.ThumbnailURL)} {
		key, ok := w.images.KeyFromURL(url)
		if !ok {
			continue
		}
		if err := w.images.Delete(ctx, key); err != nil {
			w.logger.Warn().Err(err).Str("key", key).Msg("failed to delete image of removed item")
		}
	}
	return nil
}

// ToggleFavorite sets the favorite flag. The cached closet view is updated
// before the write and restored if the write fails.
func (w *Wardrobe) ToggleFavorite(ctx context.Context, ownerID string, id uuid.UUID, favorite bool) (*models.ClothingItem, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}

	var updated *models.ClothingItem
	err := RunOptimistic(w.tentativeFavorite(ownerID, id, favorite), func() error {
		var err error
		updated, err = w.items.Update(ctx, ownerID, id, map[string]any{
			"is_favorite": favorite,
			"updated_at":  w.now(),
		})
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "clothing item", err)
	}

	w.cache.Invalidate(ownerID, ViewCalendar, ViewInsights)
	return updated, nil
}

func (w *Wardrobe) tentativeFavorite(ownerID string, id uuid.UUID, favorite bool) Tentative {
	var before []models.ClothingItem
	slot := w.cache.Slot(ownerID, ViewCloset, closetItemsKey)
	return Tentative{
		Apply: func() {
			v, ok := w.cache.Get(slot)
			if !ok {
				return
			}
			items, ok := v.([]models.ClothingItem)
			if !ok {
				return
			}
			before = items
			next := slices.Clone(items)
			for i := range next {
				if next[i].ID == id {
					next[i].IsFavorite = favorite
				}
			}
			w.cache.Set(slot, next)
		},
		Revert: func() {
			if before != nil {
				w.cache.Set(slot, before)
			}
		},
	}
}

// MarkWorn records one wear on day.
func (w *Wardrobe) MarkWorn(ctx context.Context, ownerID string, id uuid.UUID, day time.Time) (*models.ClothingItem, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	item, err := w.items.IncrementWear(ctx, ownerID, id, day)
	if err != nil {
		return nil, errs.NewDatabaseError("mark worn", "clothing item", err)
	}
	w.cache.Invalidate(ownerID, AllViews...)
	return item, nil
}

func (w *Wardrobe) ListTags(ctx context.Context, ownerID string) ([]models.ClothingTag, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	tags, err := w.tags.List(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "clothing tags", err)
	}
	return tags, nil
}

// CreateTag stores a tag. Names are unique per owner and color defaults to models.DefaultTagColor.
func (w *Wardrobe) CreateTag(ctx context.Context, ownerID string, in TagInput) (*models.ClothingTag, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := w.validator.Validate(in); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = models.DefaultTagColor
	}

	tag := &models.ClothingTag{UserID: ownerID, Name: in.Name, Color: in.Color}
	if err := w.tags.Create(ctx, tag); err != nil {
		if errs.IsDuplicate(err) {
			return nil, errs.NewDuplicateError("clothing tag", "A tag with this name already exists", err)
		}
		return nil, errs.NewDatabaseError("create", "clothing tag", err)
	}
	w.cache.Invalidate(ownerID, ViewInsights)
	return tag, nil
}

// DeleteTag removes a tag and its links. Deleting an absent tag succeeds.
func (w *Wardrobe) DeleteTag(ctx context.Context, ownerID string, id uuid.UUID) error {
	if ownerID == "" {
		return errs.NewAuthRequiredError()
	}
	if err := w.tags.Delete(ctx, ownerID, id); err != nil {
		return errs.NewDatabaseError("delete", "clothing tag", err)
	}
	w.cache.Invalidate(ownerID, ViewCloset, ViewInsights)
	return nil
}

// TagItem links a tag to an item. Applying the same tag twice fails with errs.ErrDuplicate.
func (w *Wardrobe) TagItem(ctx context.Context, ownerID string, itemID, tagID uuid.UUID) error {
	if _, err := w.GetItem(ctx, ownerID, itemID); err != nil {
		return err
	}
	if err := w.ensureTag(ctx, ownerID, tagID); err != nil {
		return err
	}
	if err := w.items.AddTag(ctx, itemID, tagID); err != nil {
		if errs.IsDuplicate(err) {
			return errs.NewDuplicateError("item tag", "This tag is already applied to this item", err)
		}
		return errs.NewDatabaseError("tag", "clothing item", err)
	}
	w.cache.Invalidate(ownerID, ViewCloset)
	return nil
}

// UntagItem unlinks a tag. Removing a link that does not exist succeeds.
func (w *Wardrobe) UntagItem(ctx context.Context, ownerID string, itemID, tagID uuid.UUID) error {
	if _, err := w.GetItem(ctx, ownerID, itemID); err != nil {
		return err
	}
	if err := w.items.RemoveTag(ctx, itemID, tagID); err != nil {
		return errs.NewDatabaseError("untag", "clothing item", err)
	}
	w.cache.Invalidate(ownerID, ViewCloset)
	return nil
}

func (w *Wardrobe) ensureTag(ctx context.Context, ownerID string, tagID uuid.UUID) error {
	tag, err := w.tags.Get(ctx, ownerID, tagID)
	if err != nil {
		return errs.NewDatabaseError("find", "clothing tag", err)
	}
	if tag == nil {
		return errs.NewNotFound("clothing tag")
	}
	return nil
}

func (w *Wardrobe) syncTags(ctx context.Context, ownerID string, item *models.ClothingItem, want []uuid.UUID) error {
	want = uniqueIDs(want)
	have := item.TagIDs()

	for _, id := range want {
		if slices.Contains(have, id) {
			continue
		}
		if err := w.ensureTag(ctx, ownerID, id); err != nil {
			return err
		}
		if err := w.items.AddTag(ctx, item.ID, id); err != nil {
			return errs.NewDatabaseError("tag", "clothing item", err)
		}
	}
	for _, id := range have {
		if slices.Contains(want, id) {
			continue
		}
		if err := w.items.RemoveTag(ctx, item.ID, id); err != nil {
			return errs.NewDatabaseError("untag", "clothing item", err)
		}
	}
	return nil
}

// patchFields validates patch and converts it to column updates.
func (w *Wardrobe) patchFields(p ItemPatch) (map[string]any, error) {
	if err := w.validator.Validate(p); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, errs.NewMissingRequiredFieldError("name")
		}
		fields["name"] = name
	}
	if p.Type != nil {
		if *p.Type == "" {
			return nil, errs.NewMissingRequiredFieldError("type")
		}
		fields["type"] = *p.Type
	}
	if p.ImageURL != nil {
		url := strings.TrimSpace(*p.ImageURL)
		if url == "" {
			return nil, errs.NewMissingRequiredFieldError("imageUrl")
		}
		fields["image_url"] = url
	}
	if p.Season != nil {
		fields["season"] = models.NormalizeSeasons(*p.Season)
	}
	if p.PurchaseDate != nil {
		d, err := parseOptionalDate(p.PurchaseDate)
		if err != nil {
			return nil, err
		}
		fields["purchase_date"] = d
	}
	if p.PurchasePrice != nil {
		fields["purchase_price"] = *p.PurchasePrice
	}
	if p.IsFavorite != nil {
		fields["is_favorite"] = *p.IsFavorite
	}
	for column, value := range map[string]*string{
		"thumbnail_url": p.ThumbnailURL,
		"description":   p.Description,
		"color":         p.Color,
		"brand":         p.Brand,
		"notes":         p.Notes,
	} {
		if value != nil {
			fields[column] = nilIfBlank(value)
		}
	}
	return fields, nil
}

func parseOptionalDate(s *string) (*datatypes.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := calendar.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, errs.NewInvalidFieldError("purchaseDate", "must be a date formatted as 2006-01-02")
	}
	d := datatypes.Date(t)
	return &d, nil
}

func nilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
