package store

import (
	"context"
	"fmt"
	"strings"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/pkg/common"

	"github.com/jinzhu/gorm"
)

const (
	browseLimit = 20
	searchLimit = 30
)

// gorm v1 不支援 context，只在進入時檢查是否已取消
func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.db, nil
}

func (s *Store) tagged(models []IngredientModel) []cocktail.Ingredient {
	out := make([]cocktail.Ingredient, len(models))
	for i, m := range models {
		out[i] = m.toDomain()
		s.policy.Tag(&out[i])
	}
	return out
}

// GetIngredient 依 id 取得食材
func (s *Store) GetIngredient(ctx context.Context, id int64) (*cocktail.Ingredient, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var m IngredientModel
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, cocktail.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	ing := s.tagged([]IngredientModel{m})[0]
	return &ing, nil
}

// ListIngredientsByType 依類型（不分大小寫）列出食材
func (s *Store) ListIngredientsByType(ctx context.Context, typ string) ([]cocktail.Ingredient, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var models []IngredientModel
	if err := db.Where("LOWER(type) = ?", strings.ToLower(typ)).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients of type %q: %w", typ, err)
	}
	return s.tagged(models), nil
}

// ListIngredients 全部食材，依名稱排序
func (s *Store) ListIngredients(ctx context.Context) ([]cocktail.Ingredient, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var models []IngredientModel
	if err := db.Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return s.tagged(models), nil
}

// SearchIngredients 搜尋食材；空字串回傳前 20 筆
func (s *Store) SearchIngredients(ctx context.Context, query string) ([]cocktail.Ingredient, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var models []IngredientModel
	q := strings.TrimSpace(query)
	if q == "" {
		err = db.Order("name").Limit(browseLimit).Find(&models).Error
	} else {
		pattern := "%" + common.NormalizeIngredientName(q) + "%"
		err = db.Where("normalized_name LIKE ? OR LOWER(type) LIKE ?", pattern, strings.ToLower("%"+q+"%")).
			Order("name").
			Limit(searchLimit).
			Find(&models).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return s.tagged(models), nil
}

// ListCategories 全部分類
func (s *Store) ListCategories(ctx context.Context) ([]cocktail.Category, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var models []CategoryModel
	if err := db.Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]cocktail.Category, len(models))
	for i, m := range models {
		out[i] = cocktail.Category{ID: m.ID, Name: m.Name}
	}
	return out, nil
}

// ListRecipesByCategory 分類下的調酒（不含食材行）
func (s *Store) ListRecipesByCategory(ctx context.Context, categoryID int64) ([]cocktail.Recipe, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var category CategoryModel
	if err := db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", categoryID, err)
	}

	var models []CocktailModel
	if err := db.Where("category_id = ?", categoryID).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cocktails: %w", err)
	}
	out := make([]cocktail.Recipe, len(models))
	for i, m := range models {
		out[i] = m.toDomain()
		out[i].Category = category.Name
	}
	return out, nil
}

// ListAllRecipesWithLines 所有配方與依序排列的食材行
//
// 食材已不存在的行 Ingredient 為 nil，交由比對引擎判斷。
func (s *Store) ListAllRecipesWithLines(ctx context.Context) ([]cocktail.Recipe, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var models []CocktailModel
	if err := db.Order("name").Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cocktails: %w", err)
	}
	var lines []RecipeLineModel
	if err := db.Order("cocktail_id").Order("sort_order").Order("id").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipe lines: %w", err)
	}
	ingredients, err := s.ingredientIndex(db)
	if err != nil {
		return nil, err
	}
	categories, err := categoryIndex(db)
	if err != nil {
		return nil, err
	}

	byCocktail := make(map[int64][]cocktail.RecipeLine, len(models))
	for _, l := range lines {
		byCocktail[l.CocktailID] = append(byCocktail[l.CocktailID], hydrateLine(l, ingredients))
	}

	recipes := make([]cocktail.Recipe, len(models))
	for i, m := range models {
		r := m.toDomain()
		r.Category = categories[m.CategoryID]
		if ls, ok := byCocktail[m.ID]; ok {
			r.Lines = ls
		}
		recipes[i] = r
	}
	return recipes, nil
}

// GetRecipe 依 id 取得配方
func (s *Store) GetRecipe(ctx context.Context, id int64) (*cocktail.Recipe, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var m CocktailModel
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, cocktail.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get cocktail %d: %w", id, err)
	}

	var lines []RecipeLineModel
	if err := db.Where("cocktail_id = ?", id).Order("sort_order").Order("id").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipe lines: %w", err)
	}
	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.IngredientID
	}
	var ingModels []IngredientModel
	if len(ids) > 0 {
		if err := db.Where("id IN (?)", ids).Find(&ingModels).Error; err != nil {
			return nil, fmt.Errorf("failed to load ingredients: %w", err)
		}
	}
	ingredients := make(map[int64]cocktail.Ingredient, len(ingModels))
	for _, ing := range s.tagged(ingModels) {
		ingredients[ing.ID] = ing
	}

	r := m.toDomain()
	var category CategoryModel
	if err := db.Where("id = ?", m.CategoryID).First(&category).Error; err == nil {
		r.Category = category.Name
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	for _, l := range lines {
		r.Lines = append(r.Lines, hydrateLine(l, ingredients))
	}
	return &r, nil
}

// Counts 目錄筆數
func (s *Store) Counts(ctx context.Context) (cocktail.CatalogStats, error) {
	var stats cocktail.CatalogStats
	db, err := s.conn(ctx)
	if err != nil {
		return stats, err
	}
	if err := db.Model(&CategoryModel{}).Count(&stats.Categories).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&CocktailModel{}).Count(&stats.Cocktails).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&IngredientModel{}).Count(&stats.Ingredients).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// GetMetadata 讀取設定值，不存在時 ok 為 false
func (s *Store) GetMetadata(ctx context.Context, key string) (string, bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return "", false, err
	}
	var m MetadataModel
	if err := db.Where("name = ?", key).First(&m).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read metadata %q: %w", key, err)
	}
	return m.Value, true, nil
}

// SetMetadata 寫入設定值
func (s *Store) SetMetadata(ctx context.Context, key, value string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return setMetadata(db, key, value)
}

func setMetadata(db *gorm.DB, key, value string) error {
	if err := db.Save(&MetadataModel{Key: key, Value: value}).Error; err != nil {
		return fmt.Errorf("failed to write metadata %q: %w", key, err)
	}
	return nil
}

// ReplaceCatalog 在同一交易中清除並寫入整份目錄，庫存不受影響
func (s *Store) ReplaceCatalog(ctx context.Context, snap cocktail.Snapshot, version string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&RecipeLineModel{}, &CocktailModel{}, &IngredientModel{}, &CategoryModel{}} {
			if err := tx.Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
		}

		for _, c := range snap.Categories {
			if err := tx.Create(&CategoryModel{ID: c.ID, Name: c.Name}).Error; err != nil {
				return fmt.Errorf("failed to insert category %q: %w", c.Name, err)
			}
		}
		for _, ing := range snap.Ingredients {
			m := ingredientModel(ing)
			if m.NormalizedName == "" {
				m.NormalizedName = common.NormalizeIngredientName(ing.Name)
			}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to insert ingredient %q: %w", ing.Name, err)
			}
		}
		for _, r := range snap.Recipes {
			m := cocktailModel(r)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to insert cocktail %q: %w", r.Name, err)
			}
			for _, l := range r.Lines {
				line := RecipeLineModel{
					CocktailID:   r.ID,
					IngredientID: l.IngredientID,
					Measure:      l.Measure,
					Quantity:     l.Quantity,
					QuantityMax:  l.QuantityMax,
					Unit:         l.Unit,
					SortOrder:    l.SortOrder,
					IsGarnish:    l.IsGarnish,
				}
				if err := tx.Create(&line).Error; err != nil {
					return fmt.Errorf("failed to insert line of %q: %w", r.Name, err)
				}
			}
		}

		return setMetadata(tx, cocktail.MetaDataVersion, version)
	})
}

func (s *Store) ingredientIndex(db *gorm.DB) (map[int64]cocktail.Ingredient, error) {
	var models []IngredientModel
	if err := db.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	index := make(map[int64]cocktail.Ingredient, len(models))
	for _, ing := range s.tagged(models) {
		index[ing.ID] = ing
	}
	return index, nil
}

func categoryIndex(db *gorm.DB) (map[int64]string, error) {
	var models []CategoryModel
	if err := db.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	index := make(map[int64]string, len(models))
	for _, c := range models {
		index[c.ID] = c.Name
	}
	return index, nil
}

func hydrateLine(m RecipeLineModel, ingredients map[int64]cocktail.Ingredient) cocktail.RecipeLine {
	line := m.toDomain()
	if ing, ok := ingredients[m.IngredientID]; ok {
		line.Ingredient = &ing
	}
	return line
}
