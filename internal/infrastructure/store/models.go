package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/pantry"
)

// StringSlice 以 JSON 文字存放的字串陣列
type StringSlice []string

// Value 寫入資料庫
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 從資料庫讀回
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// CategoryModel 分類
type CategoryModel struct {
	ID   int64  `gorm:"primary_key"`
	Name string `gorm:"unique_index;not null"`
}

// TableName 資料表名稱
func (CategoryModel) TableName() string { return "categories" }

// IngredientModel 食材
type IngredientModel struct {
	ID             int64  `gorm:"primary_key"`
	Name           string `gorm:"not null"`
	NormalizedName string `gorm:"index"`
	Type           string `gorm:"index"`
	Description    string `gorm:"type:text"`
	IsAlcoholic    *bool
	ABV            *float64 `gorm:"column:abv"`
	ImageURL       string
}

// TableName 資料表名稱
func (IngredientModel) TableName() string { return "ingredients" }

// CocktailModel 調酒
type CocktailModel struct {
	ID           int64  `gorm:"primary_key"`
	Name         string `gorm:"not null;index"`
	Slug         string `gorm:"index"`
	CategoryID   int64  `gorm:"index"`
	Instructions string `gorm:"type:text"`
	Glass        string
	Alcoholic    string
	IBA          string      `gorm:"column:iba"`
	Tags         StringSlice `gorm:"type:text"`
	ImageURL     string
}

// TableName 資料表名稱
func (CocktailModel) TableName() string { return "cocktails" }

// RecipeLineModel 配方食材行
type RecipeLineModel struct {
	ID           int64 `gorm:"primary_key"`
	CocktailID   int64 `gorm:"index"`
	IngredientID int64 `gorm:"index"`
	Measure      string
	Quantity     *float64
	QuantityMax  *float64
	Unit         string
	SortOrder    int
	IsGarnish    bool
}

// TableName 資料表名稱
func (RecipeLineModel) TableName() string { return "recipe_lines" }

// PantryItemModel 庫存
type PantryItemModel struct {
	IngredientID int64 `gorm:"primary_key;auto_increment:false"`
	QuantityML   float64
	UpdatedAt    time.Time
}

// TableName 資料表名稱
func (PantryItemModel) TableName() string { return "pantry_items" }

// FavoriteModel 收藏的調酒，不隨目錄重新匯入清除
type FavoriteModel struct {
	CocktailID int64 `gorm:"primary_key;auto_increment:false"`
	AddedAt    time.Time
}

// TableName 資料表名稱
func (FavoriteModel) TableName() string { return "favorites" }

// MetadataModel 鍵值設定，例如資料版本
type MetadataModel struct {
	Key   string `gorm:"column:name;primary_key"`
	Value string `gorm:"type:text"`
}

// TableName 資料表名稱
func (MetadataModel) TableName() string { return "metadata" }

func allModels() []interface{} {
	return []interface{}{
		&CategoryModel{},
		&IngredientModel{},
		&CocktailModel{},
		&RecipeLineModel{},
		&PantryItemModel{},
		&FavoriteModel{},
		&MetadataModel{},
	}
}

func (m IngredientModel) toDomain() cocktail.Ingredient {
	return cocktail.Ingredient{
		ID:             m.ID,
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		Type:           m.Type,
		Description:    m.Description,
		IsAlcoholic:    m.IsAlcoholic,
		ABV:            m.ABV,
		ImageURL:       m.ImageURL,
	}
}

func ingredientModel(ing cocktail.Ingredient) IngredientModel {
	return IngredientModel{
		ID:             ing.ID,
		Name:           ing.Name,
		NormalizedName: ing.NormalizedName,
		Type:           ing.Type,
		Description:    ing.Description,
		IsAlcoholic:    ing.IsAlcoholic,
		ABV:            ing.ABV,
		ImageURL:       ing.ImageURL,
	}
}

func (m CocktailModel) toDomain() cocktail.Recipe {
	return cocktail.Recipe{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		CategoryID:   m.CategoryID,
		Instructions: m.Instructions,
		Glass:        m.Glass,
		Alcoholic:    m.Alcoholic,
		IBA:          m.IBA,
		Tags:         []string(m.Tags),
		ImageURL:     m.ImageURL,
		Lines:        []cocktail.RecipeLine{},
	}
}

func cocktailModel(r cocktail.Recipe) CocktailModel {
	return CocktailModel{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		CategoryID:   r.CategoryID,
		Instructions: r.Instructions,
		Glass:        r.Glass,
		Alcoholic:    r.Alcoholic,
		IBA:          r.IBA,
		Tags:         StringSlice(r.Tags),
		ImageURL:     r.ImageURL,
	}
}

func (m RecipeLineModel) toDomain() cocktail.RecipeLine {
	return cocktail.RecipeLine{
		ID:           m.ID,
		RecipeID:     m.CocktailID,
		IngredientID: m.IngredientID,
		Measure:      m.Measure,
		Quantity:     m.Quantity,
		QuantityMax:  m.QuantityMax,
		Unit:         m.Unit,
		SortOrder:    m.SortOrder,
		IsGarnish:    m.IsGarnish,
	}
}

func (m PantryItemModel) toDomain() pantry.Item {
	return pantry.Item{
		IngredientID: m.IngredientID,
		QuantityML:   m.QuantityML,
		UpdatedAt:    m.UpdatedAt,
	}
}
