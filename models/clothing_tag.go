package models

import (
	"time"

	"github.com/google/uuid"
)

// ClothingTag is a user-defined label that can be attached to many items
type ClothingTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    string    `json:"userId" db:"user_id" gorm:"type:text;not null;uniqueIndex:idx_clothing_tag_user_name"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_clothing_tag_user_name"`
	Color     string    `json:"color" db:"color" gorm:"type:text;not null;default:'#6366f1'"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// ItemTag links an item to a tag. The pair is unique.
type ItemTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ItemID    uuid.UUID `json:"itemId" db:"item_id" gorm:"type:uuid;not null;index:idx_item_tags_item_id;uniqueIndex:idx_item_tag_unique"`
	TagID     uuid.UUID `json:"tagId" db:"tag_id" gorm:"type:uuid;not null;uniqueIndex:idx_item_tag_unique"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	Tag ClothingTag `json:"tag,omitempty" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}
