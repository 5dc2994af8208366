package models

import "time"

type UserPreferences struct {
	UserID               string    `json:"userId" db:"user_id" gorm:"type:text;primaryKey"`
	DefaultView          string    `json:"defaultView" db:"default_view" gorm:"type:text;not null;default:'grid'"`
	Theme                string    `json:"theme" db:"theme" gorm:"type:text;not null;default:'light'"`
	NotificationsEnabled bool      `json:"notificationsEnabled" db:"notifications_enabled" gorm:"not null;default:true"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// DefaultPreferences is returned for users who have never saved preferences.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:               userID,
		DefaultView:          "grid",
		Theme:                "light",
		NotificationsEnabled: true,
	}
}
