package export

import (
	"fmt"
	"sort"
	"strings"

	"mixology-matcher/internal/core/cocktail"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetMatches 比對結果工作表
	SheetMatches = "Matches"
	// SheetShoppingList 採買清單工作表
	SheetShoppingList = "Shopping List"

	// ContentType XLSX MIME 類型
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ShoppingItem 採買清單中的一項食材
type ShoppingItem struct {
	Ingredient cocktail.Ingredient `json:"ingredient"`
	Cocktails  []string            `json:"cocktails"`
}

// ShoppingList 彙整所有比對結果缺少的食材，依需要的杯數由多到少
func ShoppingList(matches []cocktail.MatchResult) []ShoppingItem {
	index := make(map[int64]int)
	var items []ShoppingItem
	for _, m := range matches {
		for _, ing := range m.Missing {
			pos, ok := index[ing.ID]
			if !ok {
				pos = len(items)
				index[ing.ID] = pos
				items = append(items, ShoppingItem{Ingredient: ing})
			}
			items[pos].Cocktails = append(items[pos].Cocktails, m.Recipe.Name)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if len(items[i].Cocktails) != len(items[j].Cocktails) {
			return len(items[i].Cocktails) > len(items[j].Cocktails)
		}
		return strings.ToLower(items[i].Ingredient.Name) < strings.ToLower(items[j].Ingredient.Name)
	})
	return items
}

// MatchesXLSX 輸出比對結果與採買清單
func MatchesXLSX(matches []cocktail.MatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMatches); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetShoppingList); err != nil {
		return nil, err
	}

	if err := writeMatches(f, matches); err != nil {
		return nil, fmt.Errorf("failed to write %s sheet: %w", SheetMatches, err)
	}
	if err := writeShoppingList(f, ShoppingList(matches)); err != nil {
		return nil, fmt.Errorf("failed to write %s sheet: %w", SheetShoppingList, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMatches(f *excelize.File, matches []cocktail.MatchResult) error {
	sw, err := f.NewStreamWriter(SheetMatches)
	if err != nil {
		return err
	}
	header := []interface{}{"Cocktail", "Category", "Match %", "Matched", "Missing"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, m := range matches {
		row := []interface{}{
			m.Recipe.Name,
			m.Recipe.Category,
			m.MatchPercentage,
			joinNames(m.Matched),
			joinNames(m.Missing),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeShoppingList(f *excelize.File, items []ShoppingItem) error {
	sw, err := f.NewStreamWriter(SheetShoppingList)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"Ingredient", "Type", "Needed For", "Cocktails"}); err != nil {
		return err
	}
	for i, item := range items {
		row := []interface{}{
			item.Ingredient.Name,
			item.Ingredient.Type,
			len(item.Cocktails),
			strings.Join(item.Cocktails, ", "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func joinNames(ings []cocktail.Ingredient) string {
	names := make([]string, len(ings))
	for i, ing := range ings {
		names[i] = ing.Name
	}
	return strings.Join(names, ", ")
}
