package importer

import (
	"encoding/json"
	"strconv"
)

// MaxIngredientSlots 來源資料每杯最多的食材欄位數
const MaxIngredientSlots = 15

// RawCocktail 來源 JSON 中的一杯調酒
type RawCocktail struct {
	ID           string  `json:"idDrink"`
	Name         string  `json:"strDrink"`
	Category     string  `json:"strCategory"`
	Alcoholic    string  `json:"strAlcoholic"`
	Glass        string  `json:"strGlass"`
	Instructions string  `json:"strInstructions"`
	Tags         *string `json:"strTags"`
	IBA          *string `json:"strIBA"`
	Thumb        *string `json:"strDrinkThumb"`

	// Ingredients 與 Measures 依欄位編號 1..15 存放，空欄位為 ""
	Ingredients [MaxIngredientSlots]string `json:"-"`
	Measures    [MaxIngredientSlots]string `json:"-"`
}

// UnmarshalJSON 讀取固定欄位與 strIngredientN / strMeasureN
func (c *RawCocktail) UnmarshalJSON(data []byte) error {
	type plain RawCocktail
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for i := 1; i <= MaxIngredientSlots; i++ {
		n := strconv.Itoa(i)
		if s, ok := fields["strIngredient"+n].(string); ok {
			p.Ingredients[i-1] = s
		}
		if s, ok := fields["strMeasure"+n].(string); ok {
			p.Measures[i-1] = s
		}
	}

	*c = RawCocktail(p)
	return nil
}

// RawIngredient 來源 JSON 中的食材明細
type RawIngredient struct {
	ID          string  `json:"idIngredient"`
	Name        string  `json:"strIngredient"`
	Description *string `json:"strDescription"`
	Type        *string `json:"strType"`
	Alcohol     *string `json:"strAlcohol"`
	ABV         *string `json:"strABV"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
