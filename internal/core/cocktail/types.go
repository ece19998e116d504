package cocktail

import (
	"errors"
	"fmt"
	"strings"
)

// Ingredient 食材
type Ingredient struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	NormalizedName string            `json:"normalized_name"`
	Type           string            `json:"type,omitempty"`
	Group          SubstitutionGroup `json:"group,omitempty"` // 替代分組，載入目錄時決定
	Description    string            `json:"description,omitempty"`
	IsAlcoholic    *bool             `json:"is_alcoholic,omitempty"`
	ABV            *float64          `json:"abv,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"`
}

// Category 調酒分類
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Recipe 調酒配方
type Recipe struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	CategoryID   int64        `json:"category_id"`
	Category     string       `json:"category,omitempty"`
	Instructions string       `json:"instructions"`
	Glass        string       `json:"glass,omitempty"`
	Alcoholic    string       `json:"alcoholic,omitempty"`
	IBA          string       `json:"iba,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	Lines        []RecipeLine `json:"ingredients"`
}

// RecipeLine 配方中的一行食材
type RecipeLine struct {
	ID           int64       `json:"id"`
	RecipeID     int64       `json:"recipe_id"`
	IngredientID int64       `json:"ingredient_id"`
	Ingredient   *Ingredient `json:"ingredient"`
	Measure      string      `json:"measure"` // 原始份量文字
	Quantity     *float64    `json:"quantity"`
	QuantityMax  *float64    `json:"quantity_max"`
	Unit         string      `json:"unit"`
	SortOrder    int         `json:"sort_order"`
	IsGarnish    bool        `json:"is_garnish"`
}

// MatchResult 單一配方的比對結果
type MatchResult struct {
	Recipe          Recipe       `json:"cocktail"`
	Matched         []Ingredient `json:"matched_ingredients"`
	Missing         []Ingredient `json:"missing_ingredients"`
	MatchPercentage float64      `json:"match_percentage"`
}

// MatchMode 比對模式
type MatchMode string

const (
	// ModeAll 每個已選食材都必須用得上
	ModeAll MatchMode = "all"
	// ModeAny 至少命中一項即可
	ModeAny MatchMode = "any"
)

// ParseMatchMode 解析比對模式，空字串視為 all
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeAny:
		return ModeAny, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", s)
	}
}

// MatchOptions 比對選項
type MatchOptions struct {
	MinMatchPercentage float64
	Mode               MatchMode
	AllowSubstitution  bool
	// SkipInvalid 為 true 時略過資料不一致的配方，否則中止整次比對
	SkipInvalid bool
}

// DefaultMatchOptions 預設選項
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Mode:              ModeAll,
		AllowSubstitution: true,
	}
}

// Coverage 食材 id 對應可滿足它的已選食材 id（依處理順序）
type Coverage map[int64][]int64

// Covers 已選食材 sel 是否能滿足 ingredientID
func (c Coverage) Covers(ingredientID, sel int64) bool {
	for _, id := range c[ingredientID] {
		if id == sel {
			return true
		}
	}
	return false
}

var (
	// ErrDataIntegrity 目錄資料不一致
	ErrDataIntegrity = errors.New("catalog data integrity violation")
	// ErrIngredientNotFound 食材不存在
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrRecipeNotFound 配方不存在
	ErrRecipeNotFound = errors.New("recipe not found")
)

// IntegrityError 配方引用了不存在的食材
type IntegrityError struct {
	RecipeID     int64
	RecipeName   string
	IngredientID int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("recipe %d (%s) references missing ingredient %d", e.RecipeID, e.RecipeName, e.IngredientID)
}

// Unwrap 讓 errors.Is(err, ErrDataIntegrity) 成立
func (e *IntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// Snapshot 一次完整匯入的目錄內容
type Snapshot struct {
	Categories  []Category
	Ingredients []Ingredient
	Recipes     []Recipe
}

// CatalogStats 目錄筆數
type CatalogStats struct {
	Categories  int `json:"categories"`
	Cocktails   int `json:"cocktails"`
	Ingredients int `json:"ingredients"`
}
