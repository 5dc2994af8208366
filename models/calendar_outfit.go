package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DateLayout is the zero-padded calendar day format used for keys and wire values.
const DateLayout = "2006-01-02"

// CalendarOutfit schedules one item on one day. (user_id, date, item_id) is unique.
type CalendarOutfit struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    string         `json:"userId" db:"user_id" gorm:"type:text;not null;uniqueIndex:idx_calendar_outfit_unique;index:idx_calendar_outfits_user_date,priority:1"`
	Date      datatypes.Date `json:"-" db:"date" gorm:"type:date;not null;uniqueIndex:idx_calendar_outfit_unique;index:idx_calendar_outfits_user_date,priority:2"`
	ItemID    uuid.UUID      `json:"itemId" db:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_calendar_outfit_unique"`
	Position  int            `json:"position" db:"position" gorm:"type:integer;not null;default:0;check:chk_calendar_outfits_position,position >= 0"`
	Notes     *string        `json:"notes,omitempty" db:"notes" gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	ClothingItem *ClothingItem `json:"clothingItem,omitempty" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
}

// Day returns the scheduled date as UTC midnight.
func (o CalendarOutfit) Day() time.Time {
	t := time.Time(o.Date)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey returns the scheduled date as YYYY-MM-DD.
func (o CalendarOutfit) DateKey() string {
	return o.Day().Format(DateLayout)
}

// ToDate truncates t to a calendar day in its own location and returns it as a UTC date.
func ToDate(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// MarshalJSON renders Date as YYYY-MM-DD instead of a full timestamp.
func (o CalendarOutfit) MarshalJSON() ([]byte, error) {
	type alias CalendarOutfit
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(o), o.DateKey()})
}
