package cocktail

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Matcher 比對引擎
type Matcher struct {
	catalog  Catalog
	resolver *Resolver
}

// NewMatcher 創建比對引擎
func NewMatcher(catalog Catalog) *Matcher {
	return &Matcher{
		catalog:  catalog,
		resolver: NewResolver(catalog),
	}
}

// ResolveCoverage 對外提供涵蓋表
func (m *Matcher) ResolveCoverage(ctx context.Context, selectedIDs []int64, allowSubstitution bool) (Coverage, error) {
	return m.resolver.BuildCoverage(ctx, selectedIDs, allowSubstitution)
}

// FindMatches 找出可用已選食材調製的配方
//
// 未選任何食材時直接回傳空結果，不讀取目錄。
func (m *Matcher) FindMatches(ctx context.Context, selectedIDs []int64, opts MatchOptions) ([]MatchResult, error) {
	selected := uniqueIDs(selectedIDs)
	if len(selected) == 0 {
		return []MatchResult{}, nil
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}

	coverage, err := m.resolver.BuildCoverage(ctx, selected, opts.AllowSubstitution)
	if err != nil {
		return nil, err
	}

	recipes, err := m.catalog.ListAllRecipesWithLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	matches := make([]MatchResult, 0)
	for i := range recipes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := evaluate(&recipes[i], selected, coverage)
		if err != nil {
			var integrityErr *IntegrityError
			if opts.SkipInvalid && errors.As(err, &integrityErr) {
				common.LogWarn("略過資料不一致的配方",
					zap.Int64("recipe_id", integrityErr.RecipeID),
					zap.Int64("ingredient_id", integrityErr.IngredientID),
				)
				continue
			}
			return nil, err
		}

		if include(result, &recipes[i], selected, coverage, opts) {
			matches = append(matches, result)
		}
	}

	SortMatches(matches)

	common.LogDebug("配方比對完成",
		zap.Int("selected", len(selected)),
		zap.Int("recipes", len(recipes)),
		zap.Int("matches", len(matches)),
		zap.String("mode", string(opts.Mode)),
	)
	return matches, nil
}

// evaluate 計算單一配方的命中與缺少食材
//
// 每個已選食材在同一配方內只能滿足一行，used 集合每個配方重新建立。
func evaluate(recipe *Recipe, selected []int64, coverage Coverage) (MatchResult, error) {
	result := MatchResult{
		Recipe:  *recipe,
		Matched: make([]Ingredient, 0, len(recipe.Lines)),
		Missing: make([]Ingredient, 0),
	}
	used := make(map[int64]struct{}, len(selected))

	for _, line := range recipe.Lines {
		if line.Ingredient == nil {
			return MatchResult{}, &IntegrityError{
				RecipeID:     recipe.ID,
				RecipeName:   recipe.Name,
				IngredientID: line.IngredientID,
			}
		}

		matched := false
		for _, sel := range coverage[line.IngredientID] {
			if _, taken := used[sel]; taken {
				continue
			}
			used[sel] = struct{}{}
			matched = true
			break
		}

		if matched {
			result.Matched = append(result.Matched, *line.Ingredient)
		} else {
			result.Missing = append(result.Missing, *line.Ingredient)
		}
	}

	if total := len(recipe.Lines); total > 0 {
		result.MatchPercentage = float64(len(result.Matched)) / float64(total) * 100
	}
	return result, nil
}

// include 依模式與門檻決定是否納入結果
func include(result MatchResult, recipe *Recipe, selected []int64, coverage Coverage, opts MatchOptions) bool {
	if result.MatchPercentage < opts.MinMatchPercentage {
		return false
	}

	if opts.Mode == ModeAny {
		return len(result.Matched) > 0
	}

	// all 模式另行檢查：每個已選食材至少能涵蓋配方中的一行，與上面的使用計數無關
	for _, sel := range selected {
		usable := false
		for _, line := range recipe.Lines {
			if coverage.Covers(line.IngredientID, sel) {
				usable = true
				break
			}
		}
		if !usable {
			return false
		}
	}
	return true
}

// SortMatches 依命中率由高到低，同分時依名稱（語系排序）
func SortMatches(matches []MatchResult) {
	// collator 非並發安全，每次排序各自建立
	col := collate.New(language.English)
	slices.SortStableFunc(matches, func(a, b MatchResult) int {
		switch {
		case a.MatchPercentage > b.MatchPercentage:
			return -1
		case a.MatchPercentage < b.MatchPercentage:
			return 1
		}
		return col.CompareString(a.Recipe.Name, b.Recipe.Name)
	})
}
