package cocktail

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryCatalog 記憶體中的目錄，用於測試與小型資料集
type MemoryCatalog struct {
	mu          sync.RWMutex
	ingredients map[int64]Ingredient
	order       []int64
	recipes     []Recipe
}

// NewMemoryCatalog 建立目錄並以 policy 標記替代分組
func NewMemoryCatalog(policy *SubstitutionPolicy, ingredients []Ingredient, recipes []Recipe) *MemoryCatalog {
	c := &MemoryCatalog{}
	c.Replace(policy, ingredients, recipes)
	return c
}

// Replace 整批替換目錄內容
func (c *MemoryCatalog) Replace(policy *SubstitutionPolicy, ingredients []Ingredient, recipes []Recipe) {
	if policy == nil {
		policy = DefaultSubstitutionPolicy()
	}

	byID := make(map[int64]Ingredient, len(ingredients))
	order := make([]int64, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.NormalizedName == "" {
			ing.NormalizedName = strings.ToLower(strings.TrimSpace(ing.Name))
		}
		policy.Tag(&ing)
		if _, dup := byID[ing.ID]; !dup {
			order = append(order, ing.ID)
		}
		byID[ing.ID] = ing
	}

	hydrated := make([]Recipe, len(recipes))
	for i, r := range recipes {
		lines := make([]RecipeLine, len(r.Lines))
		copy(lines, r.Lines)
		sort.SliceStable(lines, func(a, b int) bool { return lines[a].SortOrder < lines[b].SortOrder })
		for j := range lines {
			if ing, ok := byID[lines[j].IngredientID]; ok {
				ing := ing
				lines[j].Ingredient = &ing
			} else {
				lines[j].Ingredient = nil
			}
		}
		r.Lines = lines
		hydrated[i] = r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingredients = byID
	c.order = order
	c.recipes = hydrated
}

// GetIngredient 依 id 取得食材
func (c *MemoryCatalog) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ing, ok := c.ingredients[id]
	if !ok {
		return nil, ErrIngredientNotFound
	}
	return &ing, nil
}

// ListIngredientsByType 依類型（不分大小寫）列出食材
func (c *MemoryCatalog) ListIngredientsByType(ctx context.Context, typ string) ([]Ingredient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Ingredient, 0)
	for _, id := range c.order {
		ing := c.ingredients[id]
		if strings.EqualFold(ing.Type, typ) {
			out = append(out, ing)
		}
	}
	return out, nil
}

// ListAllRecipesWithLines 列出所有配方
func (c *MemoryCatalog) ListAllRecipesWithLines(ctx context.Context) ([]Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out, nil
}

// GetRecipe 依 id 取得配方
func (c *MemoryCatalog) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.recipes {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, ErrRecipeNotFound
}
