package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

func (r *TagRepo) List(ctx context.Context, ownerID string) ([]models.ClothingTag, error) {
	var tags []models.ClothingTag
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "clothing tags", err)
	}
	return tags, nil
}

func (r *TagRepo) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.ClothingTag, error) {
	var tag models.ClothingTag
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "clothing tag", err)
	}
	return &tag, nil
}

func (r *TagRepo) Create(ctx context.Context, tag *models.ClothingTag) error {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return errs.NewDatabaseError("create", "clothing tag", err)
	}
	return nil
}

// Delete removes the tag; item links cascade in the database
func (r *TagRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.ClothingTag{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "clothing tag", err)
	}
	return nil
}

func (r *TagRepo) Count(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ClothingTag{}).
		Where("user_id = ?", ownerID).
		Count(&n).Error
	if err != nil {
		return 0, errs.NewDatabaseError("count", "clothing tags", err)
	}
	return n, nil
}
