package store

import (
	"context"
	"fmt"

	"mixology-matcher/internal/core/favorites"
)

// FavoriteRepository 以 Store 實作 favorites.Repository
type FavoriteRepository struct {
	store *Store
}

// Favorites 取得收藏儲存
func (s *Store) Favorites() *FavoriteRepository {
	return &FavoriteRepository{store: s}
}

// List 依加入時間由新到舊
func (r *FavoriteRepository) List(ctx context.Context) ([]favorites.Favorite, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return nil, err
	}
	var models []FavoriteModel
	if err := db.Order("added_at desc").Order("cocktail_id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	out := make([]favorites.Favorite, len(models))
	for i, m := range models {
		out[i] = favorites.Favorite{CocktailID: m.CocktailID, AddedAt: m.AddedAt}
	}
	return out, nil
}

// Exists 是否已收藏
func (r *FavoriteRepository) Exists(ctx context.Context, cocktailID int64) (bool, error) {
	db, err := r.store.conn(ctx)
	if err != nil {
		return false, err
	}
	var n int
	if err := db.Model(&FavoriteModel{}).Where("cocktail_id = ?", cocktailID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite %d: %w", cocktailID, err)
	}
	return n > 0, nil
}

// Add 新增收藏
func (r *FavoriteRepository) Add(ctx context.Context, fav favorites.Favorite) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	m := FavoriteModel{CocktailID: fav.CocktailID, AddedAt: fav.AddedAt}
	if err := db.Save(&m).Error; err != nil {
		return fmt.Errorf("failed to add favorite %d: %w", fav.CocktailID, err)
	}
	return nil
}

// Delete 取消收藏，不存在時不視為錯誤
func (r *FavoriteRepository) Delete(ctx context.Context, cocktailID int64) error {
	db, err := r.store.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("cocktail_id = ?", cocktailID).Delete(&FavoriteModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete favorite %d: %w", cocktailID, err)
	}
	return nil
}
