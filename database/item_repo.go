package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
	"gorm.io/gorm"
)

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db}
}

func (r *ItemRepo) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Where("user_id = ?", ownerID)
}

// List returns the owner's items newest first with their tags
func (r *ItemRepo) List(ctx context.Context, ownerID string) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	err := r.owned(ctx, ownerID).
		Preload("ItemTags.Tag").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "clothing items", err)
	}
	for i := range items {
		items[i].FlattenTags()
	}
	return items, nil
}

// Get returns nil, nil when the item is missing or belongs to someone else
func (r *ItemRepo) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.owned(ctx, ownerID).
		Preload("ItemTags.Tag").
		Where("id = ?", id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "clothing item", err)
	}
	item.FlattenTags()
	return &item, nil
}

func (r *ItemRepo) Create(ctx context.Context, item *models.ClothingItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("ItemTags", "Outfits").Create(item).Error; err != nil {
		return errs.NewDatabaseError("create", "clothing item", err)
	}
	return nil
}

func (r *ItemRepo) Update(ctx context.Context, ownerID string, id uuid.UUID, fields map[string]any) (*models.ClothingItem, error) {
	res := r.owned(ctx, ownerID).
		Model(&models.ClothingItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, errs.NewDatabaseError("update", "clothing item", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("clothing item")
	}
	return r.reload(ctx, ownerID, id)
}

// Delete removes the item; tag links and calendar entries cascade in the database
func (r *ItemRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	err := r.owned(ctx, ownerID).
		Where("id = ?", id).
		Delete(&models.ClothingItem{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "clothing item", err)
	}
	return nil
}

func (r *ItemRepo) AddTag(ctx context.Context, itemID, tagID uuid.UUID) error {
	link := models.ItemTag{ID: uuid.New(), ItemID: itemID, TagID: tagID}
	if err := r.db.WithContext(ctx).Omit("Tag").Create(&link).Error; err != nil {
		return errs.NewDatabaseError("insert", "item tag", err)
	}
	return nil
}

func (r *ItemRepo) RemoveTag(ctx context.Context, itemID, tagID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND tag_id = ?", itemID, tagID).
		Delete(&models.ItemTag{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "item tag", err)
	}
	return nil
}

// IncrementWear bumps wear_count in a single statement so concurrent marks are not lost
func (r *ItemRepo) IncrementWear(ctx context.Context, ownerID string, id uuid.UUID, wornOn time.Time) (*models.ClothingItem, error) {
	res := r.owned(ctx, ownerID).
		Model(&models.ClothingItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"wear_count":     gorm.Expr("wear_count + 1"),
			"last_worn_date": models.ToDate(wornOn),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, errs.NewDatabaseError("mark worn", "clothing item", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("clothing item")
	}
	return r.reload(ctx, ownerID, id)
}

func (r *ItemRepo) reload(ctx context.Context, ownerID string, id uuid.UUID) (*models.ClothingItem, error) {
	item, err := r.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errs.NewNotFound("clothing item")
	}
	return item, nil
}
