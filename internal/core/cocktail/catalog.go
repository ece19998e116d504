package cocktail

import "context"

// 目錄中繼資料的鍵
const (
	// MetaDataVersion 目前匯入資料的版本
	MetaDataVersion = "data_version"
	// MetaLastImport 最後一次匯入的批次編號
	MetaLastImport = "last_import"
)

// Catalog 比對引擎所需的唯讀目錄
//
// GetIngredient 找不到時回傳 ErrIngredientNotFound。
// ListIngredientsByType 以不分大小寫比對類型。
// ListAllRecipesWithLines 回傳的配方需帶齊依 SortOrder 排序的食材行與食材資料。
type Catalog interface {
	GetIngredient(ctx context.Context, id int64) (*Ingredient, error)
	ListIngredientsByType(ctx context.Context, typ string) ([]Ingredient, error)
	ListAllRecipesWithLines(ctx context.Context) ([]Recipe, error)
}
