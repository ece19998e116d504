package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Favorite 收藏的調酒
type Favorite struct {
	CocktailID int64     `json:"cocktail_id"`
	AddedAt    time.Time `json:"added_at"`
}

// Entry 收藏與調酒明細
type Entry struct {
	Favorite
	Cocktail *cocktail.Recipe `json:"cocktail"`
}

// Repository 收藏儲存
type Repository interface {
	// List 依加入時間由新到舊
	List(ctx context.Context) ([]Favorite, error)
	Exists(ctx context.Context, cocktailID int64) (bool, error)
	Add(ctx context.Context, fav Favorite) error
	Delete(ctx context.Context, cocktailID int64) error
}

// RecipeReader 讀取調酒明細
type RecipeReader interface {
	// GetRecipe 找不到時回傳 cocktail.ErrRecipeNotFound
	GetRecipe(ctx context.Context, id int64) (*cocktail.Recipe, error)
}

// Service 收藏服務
type Service struct {
	repo    Repository
	recipes RecipeReader
	now     func() time.Time
}

// NewService 創建收藏服務
func NewService(repo Repository, recipes RecipeReader) *Service {
	return &Service{repo: repo, recipes: recipes, now: time.Now}
}

// List 收藏清單，已不在目錄中的調酒不列出
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	favs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	out := make([]Entry, 0, len(favs))
	for _, fav := range favs {
		r, err := s.recipes.GetRecipe(ctx, fav.CocktailID)
		if err != nil {
			if errors.Is(err, cocktail.ErrRecipeNotFound) {
				common.LogDebug("收藏的調酒已不在目錄中", zap.Int64("cocktail_id", fav.CocktailID))
				continue
			}
			return nil, err
		}
		out = append(out, Entry{Favorite: fav, Cocktail: r})
	}
	return out, nil
}

// Add 加入收藏，已收藏時不變
func (s *Service) Add(ctx context.Context, cocktailID int64) error {
	if _, err := s.recipes.GetRecipe(ctx, cocktailID); err != nil {
		return err
	}
	exists, err := s.repo.Exists(ctx, cocktailID)
	if err != nil || exists {
		return err
	}
	return s.repo.Add(ctx, Favorite{CocktailID: cocktailID, AddedAt: s.now()})
}

// Remove 取消收藏
func (s *Service) Remove(ctx context.Context, cocktailID int64) error {
	return s.repo.Delete(ctx, cocktailID)
}

// Toggle 切換收藏狀態，回傳切換後是否為收藏
func (s *Service) Toggle(ctx context.Context, cocktailID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, cocktailID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.Remove(ctx, cocktailID)
	}
	if err := s.Add(ctx, cocktailID); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite 是否已收藏
func (s *Service) IsFavorite(ctx context.Context, cocktailID int64) (bool, error) {
	return s.repo.Exists(ctx, cocktailID)
}
