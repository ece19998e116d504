package measure

import (
	"net/http"

	"mixology-matcher/internal/api/handlers"
	"mixology-matcher/internal/core/measure"

	"github.com/gin-gonic/gin"
)

// ParseRequest 份量解析請求
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse 份量解析回應
type ParseResponse struct {
	measure.Measurement
	IsGarnish bool `json:"is_garnish"`
}

// FormatRequest 份量顯示請求
type FormatRequest struct {
	Quantity    *float64 `json:"quantity"`
	QuantityMax *float64 `json:"quantity_max,omitempty"`
	Unit        string   `json:"unit"`
	Scale       float64  `json:"scale,omitempty"`
	Ingredient  string   `json:"ingredient,omitempty"`
}

// ConvertRequest 單位換算請求
type ConvertRequest struct {
	Value float64 `json:"value"`
	From  string  `json:"from" binding:"required"`
	To    string  `json:"to" binding:"required"`
}

// SimplifyRequest 單位簡化請求
type SimplifyRequest struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit" binding:"required"`
	Ingredient string  `json:"ingredient,omitempty"`
	IsDry      *bool   `json:"is_dry,omitempty"`
}

// HandleParse POST /measure/parse
func HandleParse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	c.JSON(http.StatusOK, ParseResponse{
		Measurement: measure.ParseMeasure(req.Text),
		IsGarnish:   measure.IsGarnish(req.Text),
	})
}

// HandleFormat POST /measure/format
func HandleFormat(c *gin.Context) {
	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	scale := req.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		handlers.BadRequest(c, "scale must be positive")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"display": measure.FormatQuantity(req.Quantity, req.Unit, scale, req.QuantityMax, req.Ingredient),
	})
}

// HandleConvert POST /units/convert
func HandleConvert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	v, err := measure.Convert(req.Value, req.From, req.To)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"value": v,
		"unit":  measure.NormalizeUnit(req.To),
		"ml":    measure.ToMilliliters(req.Value, req.From),
	})
}

// HandleSimplify POST /units/simplify
//
// 未指定 is_dry 時依食材名稱判斷。
func HandleSimplify(c *gin.Context) {
	var req SimplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	isDry := measure.IsDryIngredient(req.Ingredient)
	if req.IsDry != nil {
		isDry = *req.IsDry
	}
	c.JSON(http.StatusOK, measure.Simplify(req.Value, req.Unit, isDry))
}
