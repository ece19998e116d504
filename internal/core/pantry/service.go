package pantry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/measure"
	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrNotInPantry 食材不在庫存中
var ErrNotInPantry = errors.New("ingredient not in pantry")

// Item 庫存項目，數量一律以毫升儲存
type Item struct {
	IngredientID int64                `json:"ingredient_id"`
	Ingredient   *cocktail.Ingredient `json:"ingredient,omitempty"`
	QuantityML   float64              `json:"quantity_ml"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Repository 庫存儲存
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	// Get 找不到時回傳 ErrNotInPantry
	Get(ctx context.Context, ingredientID int64) (*Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, ingredientID int64) error
	Clear(ctx context.Context) error
}

// Matcher 庫存比對所需的比對服務
type Matcher interface {
	Match(ctx context.Context, selectedIDs []int64, opts cocktail.MatchOptions) ([]cocktail.MatchResult, error)
}

// Service 庫存服務
type Service struct {
	repo    Repository
	catalog cocktail.Catalog
	matcher Matcher
	now     func() time.Time
}

// NewService 創建庫存服務
func NewService(repo Repository, catalog cocktail.Catalog, matcher Matcher) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		matcher: matcher,
		now:     time.Now,
	}
}

// toML 可換算的單位轉毫升，其餘為 0
func toML(quantity float64, unit string) float64 {
	if !measure.IsConvertibleUnit(unit) {
		return 0
	}
	return measure.ToMilliliters(quantity, unit)
}

// List 列出庫存，已不在目錄中的食材不列出
func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		ing, err := s.catalog.GetIngredient(ctx, item.IngredientID)
		if err != nil {
			if errors.Is(err, cocktail.ErrIngredientNotFound) {
				common.LogDebug("庫存食材已不在目錄中", zap.Int64("ingredient_id", item.IngredientID))
				continue
			}
			return nil, err
		}
		item.Ingredient = ing
		out = append(out, item)
	}
	return out, nil
}

// IngredientIDs 庫存中的食材 id
func (s *Service) IngredientIDs(ctx context.Context) ([]int64, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.IngredientID
	}
	return ids, nil
}

// Add 增加庫存數量，不存在時新增
func (s *Service) Add(ctx context.Context, ingredientID int64, quantity float64, unit string) (*Item, error) {
	return s.upsert(ctx, ingredientID, quantity, unit, true)
}

// Set 設定庫存數量（取代原值）
func (s *Service) Set(ctx context.Context, ingredientID int64, quantity float64, unit string) (*Item, error) {
	return s.upsert(ctx, ingredientID, quantity, unit, false)
}

func (s *Service) upsert(ctx context.Context, ingredientID int64, quantity float64, unit string, accumulate bool) (*Item, error) {
	if quantity < 0 {
		return nil, common.NewValidationError("quantity must not be negative")
	}
	ing, err := s.catalog.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}

	ml := toML(quantity, unit)
	item, err := s.repo.Get(ctx, ingredientID)
	switch {
	case errors.Is(err, ErrNotInPantry):
		item = &Item{IngredientID: ingredientID, QuantityML: ml}
	case err != nil:
		return nil, err
	case accumulate:
		item.QuantityML += ml
	default:
		item.QuantityML = ml
	}
	item.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save pantry item: %w", err)
	}
	item.Ingredient = ing
	return item, nil
}

// Use 扣除庫存，用完即刪除
//
// 食材不在庫存中回傳 false；無法計量的單位只確認存在並回傳 true。
func (s *Service) Use(ctx context.Context, ingredientID int64, quantity float64, unit string) (bool, error) {
	item, err := s.repo.Get(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, ErrNotInPantry) {
			return false, nil
		}
		return false, err
	}

	used := toML(quantity, unit)
	if used == 0 {
		return true, nil
	}

	remaining := math.Max(0, item.QuantityML-used)
	if remaining == 0 {
		if err := s.repo.Delete(ctx, ingredientID); err != nil {
			return false, err
		}
		return true, nil
	}

	item.QuantityML = remaining
	item.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

// Remove 從庫存移除食材
func (s *Service) Remove(ctx context.Context, ingredientID int64) error {
	return s.repo.Delete(ctx, ingredientID)
}

// Clear 清空庫存
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// HasEnough 庫存是否足夠；無法計量的單位只要存在即可
func (s *Service) HasEnough(ctx context.Context, ingredientID int64, quantity float64, unit string) (bool, error) {
	item, err := s.repo.Get(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, ErrNotInPantry) {
			return false, nil
		}
		return false, err
	}
	required := toML(quantity, unit)
	if required == 0 {
		return true, nil
	}
	return item.QuantityML >= required, nil
}

// Quantity 以指定體積單位回傳庫存量，不在庫存中為 0
func (s *Service) Quantity(ctx context.Context, ingredientID int64, unit string) (float64, error) {
	item, err := s.repo.Get(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, ErrNotInPantry) {
			return 0, nil
		}
		return 0, err
	}
	return measure.FromMilliliters(item.QuantityML, unit)
}

// Matches 以庫存食材比對配方（all 模式、允許替代）
func (s *Service) Matches(ctx context.Context, minPercentage float64) ([]cocktail.MatchResult, error) {
	ids, err := s.IngredientIDs(ctx)
	if err != nil {
		return nil, err
	}
	opts := cocktail.DefaultMatchOptions()
	opts.MinMatchPercentage = minPercentage
	return s.matcher.Match(ctx, ids, opts)
}

// FormatPantryQuantity 顯示庫存量，例如 "750ml"、"1.5L"
func FormatPantryQuantity(ml float64) string {
	if ml >= 1000 {
		return fmt.Sprintf("%.1fL", ml/1000)
	}
	return fmt.Sprintf("%dml", int64(math.Round(ml)))
}

// FormatOz 以盎司顯示庫存量
func FormatOz(ml float64) string {
	oz, _ := measure.FromMilliliters(ml, measure.UnitOunce)
	return fmt.Sprintf("%.1foz", oz)
}
