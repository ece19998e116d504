package cocktail

import "mixology-matcher/internal/core/measure"

// 份量倍數上下限
const (
	MinScale = 1
	MaxScale = 10
)

// ScaledLine 依倍數換算後的食材行
type ScaledLine struct {
	IngredientID int64  `json:"ingredient_id"`
	Name         string `json:"name"`
	Display      string `json:"display"`
	Measure      string `json:"measure"`
	IsGarnish    bool   `json:"is_garnish"`
}

// ClampScale 將倍數限制在 [MinScale, MaxScale]
func ClampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// ScaleLines 將配方份量放大並轉為顯示字串
func ScaleLines(recipe *Recipe, scale float64) []ScaledLine {
	scale = ClampScale(scale)
	out := make([]ScaledLine, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		name := ""
		if line.Ingredient != nil {
			name = line.Ingredient.Name
		}
		out = append(out, ScaledLine{
			IngredientID: line.IngredientID,
			Name:         name,
			Display:      measure.FormatQuantity(line.Quantity, line.Unit, scale, line.QuantityMax, name),
			Measure:      line.Measure,
			IsGarnish:    line.IsGarnish,
		})
	}
	return out
}
