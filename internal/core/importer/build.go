package importer

import (
	"fmt"
	"strconv"
	"strings"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/measure"
	"mixology-matcher/internal/pkg/common"
)

// FirstDynamicIngredientID 來源明細中沒有的食材從此編號起配發
const FirstDynamicIngredientID int64 = 10000

// BuildSnapshot 將原始資料轉為目錄內容
//
// 沒有分類的調酒不匯入；配方引用明細中沒有的食材時會補建，並回報一筆警告。
func BuildSnapshot(ds *Dataset) (cocktail.Snapshot, []string) {
	var (
		snap     cocktail.Snapshot
		warnings []string
	)

	categoryIDs := make(map[string]int64)
	for _, raw := range ds.Cocktails {
		if raw.Category == "" {
			continue
		}
		if _, ok := categoryIDs[raw.Category]; !ok {
			id := int64(len(snap.Categories) + 1)
			categoryIDs[raw.Category] = id
			snap.Categories = append(snap.Categories, cocktail.Category{ID: id, Name: raw.Category})
		}
	}

	byName := make(map[string]int64)
	ingredientPos := make(map[int64]int)
	for _, raw := range ds.Ingredients {
		if raw.Name == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(raw.ID), 10, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ingredient %q has invalid id %q", raw.Name, raw.ID))
			continue
		}

		alcoholic := deref(raw.Alcohol) == "Yes"
		ing := cocktail.Ingredient{
			ID:             id,
			Name:           raw.Name,
			NormalizedName: common.NormalizeIngredientName(raw.Name),
			Type:           deref(raw.Type),
			Description:    deref(raw.Description),
			IsAlcoholic:    &alcoholic,
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(deref(raw.ABV)), 64); err == nil {
			ing.ABV = &v
		}

		if pos, dup := ingredientPos[id]; dup {
			snap.Ingredients[pos] = ing
		} else {
			ingredientPos[id] = len(snap.Ingredients)
			snap.Ingredients = append(snap.Ingredients, ing)
		}
		byName[ing.NormalizedName] = id
	}

	nextID := FirstDynamicIngredientID
	recipePos := make(map[int64]int)
	for _, raw := range ds.Cocktails {
		if raw.Name == "" {
			continue
		}
		catID, ok := categoryIDs[raw.Category]
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(raw.ID), 10, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cocktail %q has invalid id %q", raw.Name, raw.ID))
			continue
		}

		r := cocktail.Recipe{
			ID:           id,
			Name:         raw.Name,
			Slug:         common.Slugify(raw.Name),
			CategoryID:   catID,
			Category:     raw.Category,
			Instructions: raw.Instructions,
			Glass:        raw.Glass,
			Alcoholic:    raw.Alcoholic,
			IBA:          deref(raw.IBA),
			Tags:         common.SplitTags(deref(raw.Tags)),
			ImageURL:     deref(raw.Thumb),
		}

		for i, name := range raw.Ingredients {
			if name == "" {
				continue
			}
			normalized := common.NormalizeIngredientName(name)
			ingID, ok := byName[normalized]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("ingredient %q in cocktail %q not found in ingredient list", name, raw.Name))
				ingID = nextID
				nextID++
				snap.Ingredients = append(snap.Ingredients, cocktail.Ingredient{
					ID:             ingID,
					Name:           common.ToTitleCase(name),
					NormalizedName: normalized,
				})
				byName[normalized] = ingID
			}

			text := raw.Measures[i]
			m := measure.ParseMeasure(text)
			r.Lines = append(r.Lines, cocktail.RecipeLine{
				RecipeID:     id,
				IngredientID: ingID,
				Measure:      text,
				Quantity:     m.Quantity,
				QuantityMax:  m.QuantityMax,
				Unit:         m.Unit,
				SortOrder:    i + 1,
				IsGarnish:    measure.IsGarnish(text),
			})
		}

		if pos, dup := recipePos[id]; dup {
			snap.Recipes[pos] = r
		} else {
			recipePos[id] = len(snap.Recipes)
			snap.Recipes = append(snap.Recipes, r)
		}
	}

	return snap, warnings
}
