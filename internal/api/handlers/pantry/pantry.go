package pantry

import (
	"context"
	"net/http"
	"strconv"

	"mixology-matcher/internal/api/handlers"
	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/measure"
	core "mixology-matcher/internal/core/pantry"

	"github.com/gin-gonic/gin"
)

// Service 庫存服務
type Service interface {
	List(ctx context.Context) ([]core.Item, error)
	Add(ctx context.Context, ingredientID int64, quantity float64, unit string) (*core.Item, error)
	Set(ctx context.Context, ingredientID int64, quantity float64, unit string) (*core.Item, error)
	Use(ctx context.Context, ingredientID int64, quantity float64, unit string) (bool, error)
	Remove(ctx context.Context, ingredientID int64) error
	Clear(ctx context.Context) error
	HasEnough(ctx context.Context, ingredientID int64, quantity float64, unit string) (bool, error)
	Quantity(ctx context.Context, ingredientID int64, unit string) (float64, error)
	Matches(ctx context.Context, minPercentage float64) ([]cocktail.MatchResult, error)
}

// ItemView 庫存項目顯示格式
type ItemView struct {
	core.Item
	Display   string `json:"display"`
	DisplayOz string `json:"display_oz"`
}

// AddRequest 新增庫存請求
type AddRequest struct {
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// QuantityRequest 數量請求
type QuantityRequest struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Handler 庫存處理程序
type Handler struct {
	svc Service
}

// NewHandler 創建庫存處理程序
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func newItemView(item core.Item) ItemView {
	return ItemView{
		Item:      item,
		Display:   core.FormatPantryQuantity(item.QuantityML),
		DisplayOz: core.FormatOz(item.QuantityML),
	}
}

// HandleList GET /pantry
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = newItemView(item)
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "count": len(views)})
}

// HandleAdd POST /pantry
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	item, err := h.svc.Add(c.Request.Context(), req.IngredientID, req.Quantity, unitOrDefault(req.Unit))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemView(*item))
}

// HandleSet PUT /pantry/:ingredient_id
func (h *Handler) HandleSet(c *gin.Context) {
	id, ok := handlers.ParseID(c, "ingredient_id")
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	item, err := h.svc.Set(c.Request.Context(), id, req.Quantity, unitOrDefault(req.Unit))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemView(*item))
}

// HandleUse POST /pantry/:ingredient_id/use
func (h *Handler) HandleUse(c *gin.Context) {
	id, ok := handlers.ParseID(c, "ingredient_id")
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	used, err := h.svc.Use(c.Request.Context(), id, req.Quantity, unitOrDefault(req.Unit))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if !used {
		handlers.RespondError(c, core.ErrNotInPantry)
		return
	}
	c.JSON(http.StatusOK, gin.H{"used": true})
}

// HandleRemove DELETE /pantry/:ingredient_id
func (h *Handler) HandleRemove(c *gin.Context) {
	id, ok := handlers.ParseID(c, "ingredient_id")
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleClear DELETE /pantry
func (h *Handler) HandleClear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleQuantity GET /pantry/:ingredient_id?unit=
func (h *Handler) HandleQuantity(c *gin.Context) {
	id, ok := handlers.ParseID(c, "ingredient_id")
	if !ok {
		return
	}
	unit := c.DefaultQuery("unit", measure.UnitMilliliter)
	q, err := h.svc.Quantity(c.Request.Context(), id, unit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient_id": id, "quantity": q, "unit": unit})
}

// HandleEnough GET /pantry/:ingredient_id/enough?quantity=&unit=
func (h *Handler) HandleEnough(c *gin.Context) {
	id, ok := handlers.ParseID(c, "ingredient_id")
	if !ok {
		return
	}
	quantity, err := strconv.ParseFloat(c.DefaultQuery("quantity", "0"), 64)
	if err != nil {
		handlers.BadRequest(c, "invalid quantity")
		return
	}
	enough, err := h.svc.HasEnough(c.Request.Context(), id, quantity, unitOrDefault(c.Query("unit")))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient_id": id, "enough": enough})
}

// HandleMatches GET /pantry/matches?min=
func (h *Handler) HandleMatches(c *gin.Context) {
	pct, err := strconv.ParseFloat(c.DefaultQuery("min", "0"), 64)
	if err != nil || pct < 0 || pct > 100 {
		handlers.BadRequest(c, "min must be between 0 and 100")
		return
	}
	matches, err := h.svc.Matches(c.Request.Context(), pct)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if matches == nil {
		matches = []cocktail.MatchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return measure.UnitMilliliter
	}
	return unit
}
