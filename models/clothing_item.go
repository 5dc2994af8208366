package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ClothingItem is a single piece of clothing in a user's closet
type ClothingItem struct {
	ID            uuid.UUID       `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID        string          `json:"userId" db:"user_id" gorm:"type:text;not null;index:idx_clothing_items_user_id"`
	Name          string          `json:"name" db:"name" gorm:"type:text;not null"`
	Description   *string         `json:"description,omitempty" db:"description" gorm:"type:text"`
	ImageURL      string          `json:"imageUrl" db:"image_url" gorm:"type:text;not null"`
	ThumbnailURL  *string         `json:"thumbnailUrl,omitempty" db:"thumbnail_url" gorm:"type:text"`
	Type          string          `json:"type" db:"type" gorm:"type:text;not null"`
	Season        pq.StringArray  `json:"season" db:"season" gorm:"type:text[];not null;default:'{}'"`
	Color         *string         `json:"color,omitempty" db:"color" gorm:"type:text"`
	Brand         *string         `json:"brand,omitempty" db:"brand" gorm:"type:text"`
	PurchaseDate  *datatypes.Date `json:"purchaseDate,omitempty" db:"purchase_date" gorm:"type:date"`
	PurchasePrice *float64        `json:"purchasePrice,omitempty" db:"purchase_price" gorm:"type:numeric(10,2)"`
	Notes         *string         `json:"notes,omitempty" db:"notes" gorm:"type:text"`
	IsFavorite    bool            `json:"isFavorite" db:"is_favorite" gorm:"not null;default:false"`
	WearCount     int             `json:"wearCount" db:"wear_count" gorm:"type:integer;not null;default:0;check:chk_clothing_items_wear_count,wear_count >= 0"`
	LastWornDate  *datatypes.Date `json:"lastWornDate,omitempty" db:"last_worn_date" gorm:"type:date"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	ItemTags []ItemTag       `json:"-" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
	Outfits  []CalendarOutfit `json:"-" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`

	// Tags is flattened from ItemTags after loading.
	Tags []ClothingTag `json:"tags" gorm:"-"`
}

// FlattenTags copies the preloaded join rows into Tags.
func (c *ClothingItem) FlattenTags() {
	c.Tags = make([]ClothingTag, 0, len(c.ItemTags))
	for _, it := range c.ItemTags {
		if it.Tag.ID != uuid.Nil {
			c.Tags = append(c.Tags, it.Tag)
		}
	}
}

func (c ClothingItem) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Tags))
	for _, t := range c.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func (c ClothingItem) HasSeason(season string) bool {
	for _, s := range c.Season {
		if s == season {
			return true
		}
	}
	return false
}

// NormalizeSeasons drops duplicates while keeping first-seen order.
func NormalizeSeasons(seasons []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(seasons))
	seen := make(map[string]struct{}, len(seasons))
	for _, s := range seasons {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
