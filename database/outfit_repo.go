package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"gorm.io/gorm"
)

type OutfitRepo struct {
	db *gorm.DB
}

func NewOutfitRepo(db *gorm.DB) *OutfitRepo {
	return &OutfitRepo{db}
}

func (r *OutfitRepo) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Where("user_id = ?", ownerID)
}

// ListForRange returns entries with start <= date <= end, each with its item
func (r *OutfitRepo) ListForRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.CalendarOutfit, error) {
	var outfits []models.CalendarOutfit
	err := r.owned(ctx, ownerID).
		Preload("ClothingItem").
		Where("date >= ? AND date <= ?", models.ToDate(start), models.ToDate(end)).
		Order("date ASC, position ASC, created_at ASC").
		Find(&outfits).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "calendar outfits", err)
	}
	return outfits, nil
}

func (r *OutfitRepo) ListForDate(ctx context.Context, ownerID string, date time.Time) ([]models.CalendarOutfit, error) {
	var outfits []models.CalendarOutfit
	err := r.owned(ctx, ownerID).
		Preload("ClothingItem").
		Where("date = ?", models.ToDate(date)).
		Order("position ASC, created_at ASC").
		Find(&outfits).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "calendar outfits", err)
	}
	return outfits, nil
}

// Insert stores entry; a repeated (user_id, date, item_id) surfaces as errs.ErrDuplicate
func (r *OutfitRepo) Insert(ctx context.Context, entry *models.CalendarOutfit) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("ClothingItem").Create(entry).Error; err != nil {
		return errs.NewDatabaseError("insert", "calendar outfit", err)
	}
	return nil
}

func (r *OutfitRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	err := r.owned(ctx, ownerID).
		Where("id = ?", id).
		Delete(&models.CalendarOutfit{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "calendar outfit", err)
	}
	return nil
}

func (r *OutfitRepo) UpdatePosition(ctx context.Context, ownerID string, id uuid.UUID, position int) error {
	return r.update(ctx, ownerID, id, map[string]any{
		"position":   position,
		"updated_at": time.Now(),
	})
}

func (r *OutfitRepo) UpdateDateAndPosition(ctx context.Context, ownerID string, id uuid.UUID, date time.Time, position int) error {
	return r.update(ctx, ownerID, id, map[string]any{
		"date":       models.ToDate(date),
		"position":   position,
		"updated_at": time.Now(),
	})
}

func (r *OutfitRepo) update(ctx context.Context, ownerID string, id uuid.UUID, fields map[string]any) error {
	res := r.owned(ctx, ownerID).
		Model(&models.CalendarOutfit{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return errs.NewDatabaseError("update", "calendar outfit", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("calendar outfit")
	}
	return nil
}

func (r *OutfitRepo) Count(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.owned(ctx, ownerID).
		Model(&models.CalendarOutfit{}).
		Count(&n).Error
	if err != nil {
		return 0, errs.NewDatabaseError("count", "calendar outfits", err)
	}
	return n, nil
}
