package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/models"
)

// ItemRepository persists clothing items and their tag links. Every read and
// write is scoped to ownerID.
type ItemRepository interface {
	List(ctx context.Context, ownerID string) ([]models.ClothingItem, error)
	// Get returns nil, nil when the item does not exist for ownerID.
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.ClothingItem, error)
	Create(ctx context.Context, item *models.ClothingItem) error
	// Update applies column→value pairs and returns the reloaded item. It reports
	// errs.ErrNotFound when no row matched, as does IncrementWear.
	Update(ctx context.Context, ownerID string, id uuid.UUID, fields map[string]any) (*models.ClothingItem, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	AddTag(ctx context.Context, itemID, tagID uuid.UUID) error
	RemoveTag(ctx context.Context, itemID, tagID uuid.UUID) error
	// IncrementWear adds one wear and stamps the last worn date.
	IncrementWear(ctx context.Context, ownerID string, id uuid.UUID, wornOn time.Time) (*models.ClothingItem, error)
}

type TagRepository interface {
	List(ctx context.Context, ownerID string) ([]models.ClothingTag, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.ClothingTag, error)
	Create(ctx context.Context, tag *models.ClothingTag) error
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	Count(ctx context.Context, ownerID string) (int64, error)
}

// CalendarRepository persists scheduled outfits. Insert reports a unique
// (owner, date, item) violation as errs.ErrDuplicate. The update methods report
// errs.ErrNotFound when no row matched.
type CalendarRepository interface {
	ListForRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.CalendarOutfit, error)
	ListForDate(ctx context.Context, ownerID string, date time.Time) ([]models.CalendarOutfit, error)
	Insert(ctx context.Context, entry *models.CalendarOutfit) error
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	UpdatePosition(ctx context.Context, ownerID string, id uuid.UUID, position int) error
	UpdateDateAndPosition(ctx context.Context, ownerID string, id uuid.UUID, date time.Time, position int) error
	Count(ctx context.Context, ownerID string) (int64, error)
}

type PreferencesRepository interface {
	// Get returns nil, nil when the owner never saved preferences.
	Get(ctx context.Context, ownerID string) (*models.UserPreferences, error)
	Upsert(ctx context.Context, prefs *models.UserPreferences) error
}

// Repositories groups the storage backends the services run on.
type Repositories struct {
	Items       ItemRepository
	Tags        TagRepository
	Outfits     CalendarRepository
	Preferences PreferencesRepository
}
