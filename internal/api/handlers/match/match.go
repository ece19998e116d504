package match

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mixology-matcher/internal/api/handlers"
	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/export"
	"mixology-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 結果篩選
const (
	FilterAll     = ""
	FilterPerfect = "perfect"
	FilterPartial = "partial"
)

// Matcher 比對服務
type Matcher interface {
	Match(ctx context.Context, selectedIDs []int64, opts cocktail.MatchOptions) ([]cocktail.MatchResult, error)
	PerfectMatches(ctx context.Context, selectedIDs []int64, opts cocktail.MatchOptions) ([]cocktail.MatchResult, error)
	PartialMatches(ctx context.Context, selectedIDs []int64, opts cocktail.MatchOptions) ([]cocktail.MatchResult, error)
	Coverage(ctx context.Context, selectedIDs []int64, allowSubstitution bool) (cocktail.Coverage, error)
}

// MatchRequest 比對請求
type MatchRequest struct {
	IngredientIDs      []int64  `json:"ingredient_ids"`
	MinMatchPercentage *float64 `json:"min_match_percentage,omitempty"`
	Mode               string   `json:"mode,omitempty"`               // all 或 any
	AllowSubstitution  *bool    `json:"allow_substitution,omitempty"` // 預設 true
	SkipInvalid        bool     `json:"skip_invalid,omitempty"`
	Filter             string   `json:"filter,omitempty"` // perfect 或 partial
}

// MatchResponse 比對回應
type MatchResponse struct {
	Matches []cocktail.MatchResult `json:"matches"`
	Count   int                    `json:"count"`
	Perfect int                    `json:"perfect"`
}

// CoverageRequest 涵蓋表請求
type CoverageRequest struct {
	IngredientIDs     []int64 `json:"ingredient_ids"`
	AllowSubstitution *bool   `json:"allow_substitution,omitempty"`
}

// Handler 比對處理程序
type Handler struct {
	matcher Matcher
}

// NewHandler 創建比對處理程序
func NewHandler(matcher Matcher) *Handler {
	return &Handler{matcher: matcher}
}

// options 驗證請求並轉為比對選項
func (r *MatchRequest) options() (cocktail.MatchOptions, error) {
	opts := cocktail.DefaultMatchOptions()

	mode, err := cocktail.ParseMatchMode(r.Mode)
	if err != nil {
		return opts, common.NewValidationError(err.Error())
	}
	opts.Mode = mode

	if r.MinMatchPercentage != nil {
		pct := *r.MinMatchPercentage
		if pct < 0 || pct > 100 {
			return opts, common.NewValidationError("min_match_percentage must be between 0 and 100")
		}
		opts.MinMatchPercentage = pct
	}
	if r.AllowSubstitution != nil {
		opts.AllowSubstitution = *r.AllowSubstitution
	}
	opts.SkipInvalid = r.SkipInvalid

	switch r.Filter {
	case FilterAll, FilterPartial, FilterPerfect:
	default:
		return opts, common.NewValidationError(fmt.Sprintf("unknown filter %q", r.Filter))
	}
	return opts, nil
}

func (h *Handler) run(c *gin.Context) ([]cocktail.MatchResult, bool) {
	requestID := handlers.RequestID(c)

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.BadRequest(c, "Invalid request format")
		return nil, false
	}
	opts, err := req.options()
	if err != nil {
		handlers.RespondError(c, err)
		return nil, false
	}

	start := time.Now()
	matches, err := h.match(c.Request.Context(), req.IngredientIDs, opts, req.Filter)
	if err != nil {
		handlers.RespondError(c, err)
		return nil, false
	}

	common.LogDebug("比對完成",
		zap.String("request_id", requestID),
		zap.Int("selected", len(req.IngredientIDs)),
		zap.Int("results", len(matches)),
		zap.String("mode", string(opts.Mode)),
		zap.Duration("耗時", time.Since(start)),
	)
	return matches, true
}

func (h *Handler) match(ctx context.Context, ids []int64, opts cocktail.MatchOptions, filter string) ([]cocktail.MatchResult, error) {
	switch filter {
	case FilterPerfect:
		return h.matcher.PerfectMatches(ctx, ids, opts)
	case FilterPartial:
		return h.matcher.PartialMatches(ctx, ids, opts)
	}
	return h.matcher.Match(ctx, ids, opts)
}

// HandleMatch 依已選食材找出可調製的調酒
func (h *Handler) HandleMatch(c *gin.Context) {
	matches, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newMatchResponse(matches))
}

// HandleExport 以 XLSX 下載比對結果與採買清單
func (h *Handler) HandleExport(c *gin.Context) {
	matches, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.MatchesXLSX(matches)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="matches.xlsx"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

// HandleShoppingList 比對結果缺少的食材
func (h *Handler) HandleShoppingList(c *gin.Context) {
	matches, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": export.ShoppingList(matches)})
}

// HandleCoverage 回傳已選食材可滿足的食材對照
func (h *Handler) HandleCoverage(c *gin.Context) {
	var req CoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	allow := true
	if req.AllowSubstitution != nil {
		allow = *req.AllowSubstitution
	}

	coverage, err := h.matcher.Coverage(c.Request.Context(), req.IngredientIDs, allow)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coverage": coverage})
}

func newMatchResponse(matches []cocktail.MatchResult) MatchResponse {
	if matches == nil {
		matches = []cocktail.MatchResult{}
	}
	perfect := 0
	for _, m := range matches {
		if m.MatchPercentage >= 100 {
			perfect++
		}
	}
	return MatchResponse{Matches: matches, Count: len(matches), Perfect: perfect}
}
