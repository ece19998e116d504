package cocktail

import (
	"context"
	"errors"
	"fmt"

	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Resolver 計算已選食材可滿足哪些食材
type Resolver struct {
	catalog Catalog
}

// NewResolver 創建替代解析器
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// BuildCoverage 建立涵蓋表
//
// 每個已選食材一定涵蓋自己。開啟替代時，屬於可替代分組的已選食材
// 也涵蓋同類型的所有食材。同一個已選 id 不會重複出現在同一清單。
// 目錄中找不到的 id 只涵蓋自己。
func (r *Resolver) BuildCoverage(ctx context.Context, selectedIDs []int64, allowSubstitution bool) (Coverage, error) {
	selected := uniqueIDs(selectedIDs)
	coverage := make(Coverage, len(selected))

	if !allowSubstitution {
		for _, id := range selected {
			coverage[id] = []int64{id}
		}
		return coverage, nil
	}

	for _, selID := range selected {
		coverage.add(selID, selID)

		ing, err := r.catalog.GetIngredient(ctx, selID)
		if err != nil {
			if errors.Is(err, ErrIngredientNotFound) {
				common.LogDebug("已選食材不在目錄中，僅涵蓋自身", zap.Int64("ingredient_id", selID))
				continue
			}
			return nil, fmt.Errorf("failed to load ingredient %d: %w", selID, err)
		}
		if ing == nil || ing.Group == "" {
			continue
		}

		siblings, err := r.catalog.ListIngredientsByType(ctx, ing.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to list ingredients of type %q: %w", ing.Type, err)
		}
		for _, sib := range siblings {
			if sib.ID == 0 {
				continue
			}
			coverage.add(sib.ID, selID)
		}
	}

	return coverage, nil
}

// add 將 sel 加入 ingredientID 的涵蓋清單（不重複）
func (c Coverage) add(ingredientID, sel int64) {
	if c.Covers(ingredientID, sel) {
		return
	}
	c[ingredientID] = append(c[ingredientID], sel)
}

// uniqueIDs 去除重複並保留首次出現順序
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
