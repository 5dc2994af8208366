package database

import (
	"context"
	"errors"

	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferencesRepo struct {
	db *gorm.DB
}

func NewPreferencesRepo(db *gorm.DB) *PreferencesRepo {
	return &PreferencesRepo{db}
}

func (r *PreferencesRepo) Get(ctx context.Context, ownerID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user preferences", err)
	}
	return &prefs, nil
}

func (r *PreferencesRepo) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"default_view", "theme", "notifications_enabled", "updated_at"}),
		}).
		Create(prefs).Error
	if err != nil {
		return errs.NewDatabaseError("save", "user preferences", err)
	}
	return nil
}
