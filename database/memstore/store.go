// Package memstore is an in-process implementation of the wardrobe
// repositories. It enforces the same uniqueness and cascade rules as the
// Postgres schema and backs DB_TYPE=memory and the test suites.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"gorm.io/datatypes"
)

type Store struct {
	mu      sync.RWMutex
	seq     int64
	now     func() time.Time
	items   map[uuid.UUID]*itemRow
	tags    map[uuid.UUID]*models.ClothingTag
	links   []models.ItemTag
	outfits map[uuid.UUID]*outfitRow
	prefs   map[string]*models.UserPreferences
}

type itemRow struct {
	seq  int64
	item models.ClothingItem
}

type outfitRow struct {
	seq    int64
	outfit models.CalendarOutfit
}

func New() *Store {
	return &Store{
		now:     time.Now,
		items:   make(map[uuid.UUID]*itemRow),
		tags:    make(map[uuid.UUID]*models.ClothingTag),
		outfits: make(map[uuid.UUID]*outfitRow),
		prefs:   make(map[string]*models.UserPreferences),
	}
}

func (s *Store) Items() *ItemRepo        { return &ItemRepo{s} }
func (s *Store) Tags() *TagRepo          { return &TagRepo{s} }
func (s *Store) Outfits() *OutfitRepo    { return &OutfitRepo{s} }
func (s *Store) Preferences() *PrefsRepo { return &PrefsRepo{s} }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// loadItem returns a detached copy of the row with Tags filled. Callers hold the lock.
func (s *Store) loadItem(row *itemRow) models.ClothingItem {
	item := row.item
	item.Season = slices.Clone(row.item.Season)
	item.ItemTags = nil
	item.Tags = []models.ClothingTag{}
	for _, link := range s.links {
		if link.ItemID != item.ID {
			continue
		}
		if tag, ok := s.tags[link.TagID]; ok {
			item.Tags = append(item.Tags, *tag)
		}
	}
	return item
}

type ItemRepo struct{ s *Store }

func (r *ItemRepo) List(_ context.Context, ownerID string) ([]models.ClothingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*itemRow, 0)
	for _, row := range r.s.items {
		if row.item.UserID == ownerID {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *itemRow) int {
		if c := b.item.CreatedAt.Compare(a.item.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]models.ClothingItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.s.loadItem(row))
	}
	return out, nil
}

func (r *ItemRepo) Get(_ context.Context, ownerID string, id uuid.UUID) (*models.ClothingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.items[id]
	if !ok || row.item.UserID != ownerID {
		return nil, nil
	}
	item := r.s.loadItem(row)
	return &item, nil
}

func (r *ItemRepo) Create(_ context.Context, item *models.ClothingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if _, exists := r.s.items[item.ID]; exists {
		return errs.NewDuplicateError("clothing item", "clothing item already exists", nil)
	}
	if item.WearCount < 0 {
		return errs.NewInvalidFieldError("wearCount", "must be greater than or equal to 0")
	}
	now := r.s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	if item.Season == nil {
		item.Season = pq.StringArray{}
	}

	stored := *item
	stored.Tags, stored.ItemTags = nil, nil
	r.s.items[item.ID] = &itemRow{seq: r.s.nextSeq(), item: stored}
	return nil
}

func (r *ItemRepo) Update(_ context.Context, ownerID string, id uuid.UUID, fields map[string]any) (*models.ClothingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[id]
	if !ok || row.item.UserID != ownerID {
		return nil, errs.NewNotFound("clothing item")
	}
	next := row.item
	for column, value := range fields {
		if err := setItemColumn(&next, column, value); err != nil {
			return nil, err
		}
	}
	if _, ok := fields["updated_at"]; !ok {
		next.UpdatedAt = r.s.now()
	}
	row.item = next

	item := r.s.loadItem(row)
	return &item, nil
}

func (r *ItemRepo) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[id]
	if !ok || row.item.UserID != ownerID {
		return nil
	}
	delete(r.s.items, id)
	r.s.links = slices.DeleteFunc(r.s.links, func(l models.ItemTag) bool { return l.ItemID == id })
	for oid, o := range r.s.outfits {
		if o.outfit.ItemID == id {
			delete(r.s.outfits, oid)
		}
	}
	return nil
}

func (r *ItemRepo) AddTag(_ context.Context, itemID, tagID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[itemID]; !ok {
		return errs.NewForeignKeyError("item tag")
	}
	if _, ok := r.s.tags[tagID]; !ok {
		return errs.NewForeignKeyError("item tag")
	}
	for _, l := range r.s.links {
		if l.ItemID == itemID && l.TagID == tagID {
			return errs.NewDuplicateError("item tag", "item tag already exists", nil)
		}
	}
	r.s.links = append(r.s.links, models.ItemTag{
		ID:        uuid.New(),
		ItemID:    itemID,
		TagID:     tagID,
		CreatedAt: r.s.now(),
	})
	return nil
}

func (r *ItemRepo) RemoveTag(_ context.Context, itemID, tagID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.links = slices.DeleteFunc(r.s.links, func(l models.ItemTag) bool {
		return l.ItemID == itemID && l.TagID == tagID
	})
	return nil
}

func (r *ItemRepo) IncrementWear(_ context.Context, ownerID string, id uuid.UUID, wornOn time.Time) (*models.ClothingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[id]
	if !ok || row.item.UserID != ownerID {
		return nil, errs.NewNotFound("clothing item")
	}
	day := models.ToDate(wornOn)
	row.item.WearCount++
	row.item.LastWornDate = &day
	row.item.UpdatedAt = r.s.now()

	item := r.s.loadItem(row)
	return &item, nil
}

func setItemColumn(item *models.ClothingItem, column string, value any) error {
	var ok bool
	switch column {
	case "name":
		item.Name, ok = value.(string)
	case "type":
		item.Type, ok = value.(string)
	case "image_url":
		item.ImageURL, ok = value.(string)
	case "season":
		item.Season, ok = value.(pq.StringArray)
	case "is_favorite":
		item.IsFavorite, ok = value.(bool)
	case "wear_count":
		item.WearCount, ok = value.(int)
		if ok && item.WearCount < 0 {
			return errs.NewInvalidFieldError("wearCount", "must be greater than or equal to 0")
		}
	case "purchase_price":
		var price float64
		if price, ok = value.(float64); ok {
			item.PurchasePrice = &price
		}
	case "purchase_date":
		item.PurchaseDate, ok = value.(*datatypes.Date)
	case "last_worn_date":
		item.LastWornDate, ok = value.(*datatypes.Date)
	case "updated_at":
		item.UpdatedAt, ok = value.(time.Time)
	case "thumbnail_url":
		item.ThumbnailURL, ok = value.(*string)
	case "description":
		item.Description, ok = value.(*string)
	case "color":
		item.Color, ok = value.(*string)
	case "brand":
		item.Brand, ok = value.(*string)
	case "notes":
		item.Notes, ok = value.(*string)
	default:
		return fmt.Errorf("unknown clothing item column %q", column)
	}
	if !ok {
		return fmt.Errorf("unexpected value %T for clothing item column %q", value, column)
	}
	return nil
}

type TagRepo struct{ s *Store }

func (r *TagRepo) List(_ context.Context, ownerID string) ([]models.ClothingTag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.ClothingTag, 0)
	for _, t := range r.s.tags {
		if t.UserID == ownerID {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b models.ClothingTag) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *TagRepo) Get(_ context.Context, ownerID string, id uuid.UUID) (*models.ClothingTag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tags[id]
	if !ok || t.UserID != ownerID {
		return nil, nil
	}
	tag := *t
	return &tag, nil
}

func (r *TagRepo) Create(_ context.Context, tag *models.ClothingTag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tags {
		if t.UserID == tag.UserID && t.Name == tag.Name {
			return errs.NewDuplicateError("clothing tag", "clothing tag already exists", nil)
		}
	}
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}
	tag.CreatedAt = r.s.now()
	stored := *tag
	r.s.tags[tag.ID] = &stored
	return nil
}

func (r *TagRepo) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tags[id]
	if !ok || t.UserID != ownerID {
		return nil
	}
	delete(r.s.tags, id)
	r.s.links = slices.DeleteFunc(r.s.links, func(l models.ItemTag) bool { return l.TagID == id })
	return nil
}

func (r *TagRepo) Count(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, t := range r.s.tags {
		if t.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type OutfitRepo struct{ s *Store }

func (r *OutfitRepo) ListForRange(_ context.Context, ownerID string, start, end time.Time) ([]models.CalendarOutfit, error) {
	from, to := models.ToDate(start), models.ToDate(end)
	return r.list(ownerID, func(o models.CalendarOutfit) bool {
		d := o.Day()
		return !d.Before(time.Time(from)) && !d.After(time.Time(to))
	}), nil
}

func (r *OutfitRepo) ListForDate(_ context.Context, ownerID string, date time.Time) ([]models.CalendarOutfit, error) {
	key := models.ToDate(date)
	return r.list(ownerID, func(o models.CalendarOutfit) bool {
		return o.Day().Equal(time.Time(key))
	}), nil
}

func (r *OutfitRepo) list(ownerID string, keep func(models.CalendarOutfit) bool) []models.CalendarOutfit {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*outfitRow, 0)
	for _, row := range r.s.outfits {
		if row.outfit.UserID == ownerID && keep(row.outfit) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b *outfitRow) int {
		if c := a.outfit.Day().Compare(b.outfit.Day()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.outfit.Position, b.outfit.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]models.CalendarOutfit, 0, len(rows))
	for _, row := range rows {
		o := row.outfit
		if itemRow, ok := r.s.items[o.ItemID]; ok {
			item := r.s.loadItem(itemRow)
			o.ClothingItem = &item
		}
		out = append(out, o)
	}
	return out
}

func (r *OutfitRepo) Insert(_ context.Context, entry *models.CalendarOutfit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[entry.ItemID]; !ok {
		return errs.NewForeignKeyError("calendar outfit")
	}
	if entry.Position < 0 {
		return errs.NewInvalidFieldError("position", "must be greater than or equal to 0")
	}
	date := models.ToDate(time.Time(entry.Date))
	if r.conflicts(uuid.Nil, entry.UserID, date, entry.ItemID) {
		return errs.NewDuplicateError("calendar outfit", errs.DuplicateOutfitMessage, nil)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := r.s.now()
	entry.Date = date
	entry.CreatedAt, entry.UpdatedAt = now, now

	stored := *entry
	stored.ClothingItem = nil
	r.s.outfits[entry.ID] = &outfitRow{seq: r.s.nextSeq(), outfit: stored}
	return nil
}

func (r *OutfitRepo) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if row, ok := r.s.outfits[id]; ok && row.outfit.UserID == ownerID {
		delete(r.s.outfits, id)
	}
	return nil
}

func (r *OutfitRepo) UpdatePosition(_ context.Context, ownerID string, id uuid.UUID, position int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.outfits[id]
	if !ok || row.outfit.UserID != ownerID {
		return errs.NewNotFound("calendar outfit")
	}
	row.outfit.Position = position
	row.outfit.UpdatedAt = r.s.now()
	return nil
}

func (r *OutfitRepo) UpdateDateAndPosition(_ context.Context, ownerID string, id uuid.UUID, date time.Time, position int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.outfits[id]
	if !ok || row.outfit.UserID != ownerID {
		return errs.NewNotFound("calendar outfit")
	}
	day := models.ToDate(date)
	if r.conflicts(id, ownerID, day, row.outfit.ItemID) {
		return errs.NewDuplicateError("calendar outfit", errs.DuplicateOutfitMessage, nil)
	}
	row.outfit.Date = day
	row.outfit.Position = position
	row.outfit.UpdatedAt = r.s.now()
	return nil
}

func (r *OutfitRepo) Count(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, row := range r.s.outfits {
		if row.outfit.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

// conflicts reports whether another entry already holds (owner, date, item). Callers hold the lock.
func (r *OutfitRepo) conflicts(self uuid.UUID, ownerID string, date datatypes.Date, itemID uuid.UUID) bool {
	for id, row := range r.s.outfits {
		if id == self {
			continue
		}
		o := row.outfit
		if o.UserID == ownerID && o.ItemID == itemID && o.Day().Equal(time.Time(date)) {
			return true
		}
	}
	return false
}

type PrefsRepo struct{ s *Store }

func (r *PrefsRepo) Get(_ context.Context, ownerID string) (*models.UserPreferences, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.prefs[ownerID]
	if !ok {
		return nil, nil
	}
	prefs := *p
	return &prefs, nil
}

func (r *PrefsRepo) Upsert(_ context.Context, prefs *models.UserPreferences) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if existing, ok := r.s.prefs[prefs.UserID]; ok {
		prefs.CreatedAt = existing.CreatedAt
	} else {
		prefs.CreatedAt = now
	}
	prefs.UpdatedAt = now
	stored := *prefs
	r.s.prefs[prefs.UserID] = &stored
	return nil
}
