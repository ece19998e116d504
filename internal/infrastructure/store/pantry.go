package store

import (
	"context"
	"fmt"

	"mixology-matcher/internal/core/pantry"

	"github.com/jinzhu/gorm"
)

// PantryRepository 以 Store 實作 pantry.Repository
type PantryRepository struct {
	store *Store
}

// Pantry 取得庫存儲存
func (s *Store) Pantry() *PantryRepository {
	return &PantryRepository{store: s}
}

// List 全部庫存項目
func (r *PantryRepository) List(ctx context.Context) ([]pantry.Item, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return nil, err
	}
	var models []PantryItemModel
	if err := db.Order("ingredient_id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}
	items := make([]pantry.Item, len(models))
	for i, m := range models {
		items[i] = m.toDomain()
	}
	return items, nil
}

// Get 取得單一項目
func (r *PantryRepository) Get(ctx context.Context, ingredientID int64) (*pantry.Item, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return nil, err
	}
	var m PantryItemModel
	if err := db.Where("ingredient_id = ?", ingredientID).First(&m).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, pantry.ErrNotInPantry
		}
		return nil, fmt.Errorf("failed to get pantry item %d: %w", ingredientID, err)
	}
	item := m.toDomain()
	return &item, nil
}

// Save 新增或更新項目
func (r *PantryRepository) Save(ctx context.Context, item *pantry.Item) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	m := PantryItemModel{
		IngredientID: item.IngredientID,
		QuantityML:   item.QuantityML,
		UpdatedAt:    item.UpdatedAt,
	}
	if err := db.Save(&m).Error; err != nil {
		return fmt.Errorf("failed to save pantry item %d: %w", item.IngredientID, err)
	}
	return nil
}

// Delete 刪除項目，不存在時不視為錯誤
func (r *PantryRepository) Delete(ctx context.Context, ingredientID int64) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("ingredient_id = ?", ingredientID).Delete(&PantryItemModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete pantry item %d: %w", ingredientID, err)
	}
	return nil
}

// Clear 清空庫存
func (r *PantryRepository) Clear(ctx context.Context) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Delete(&PantryItemModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear pantry: %w", err)
	}
	return nil
}
