package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/measure"
	"mixology-matcher/internal/core/pantry"
	"mixology-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestID 取得請求 ID，沒有時產生一個並寫回回應標頭
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}

// RespondError 依錯誤類型回傳對應狀態碼
func RespondError(c *gin.Context, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", RequestID(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}

// BadRequest 回傳 400
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  common.ErrCodeInvalidRequest,
	})
}

func classify(err error) (int, string, string) {
	var (
		ce        *common.CustomError
		ve        *common.ValidationError
		integrity *cocktail.IntegrityError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, common.ErrCodeInvalidRequest, ve.Error()
	case errors.As(err, &integrity):
		return http.StatusInternalServerError, common.ErrDataIntegrity.Code, integrity.Error()
	case errors.Is(err, cocktail.ErrIngredientNotFound),
		errors.Is(err, cocktail.ErrRecipeNotFound):
		return http.StatusNotFound, common.ErrCodeNotFound, err.Error()
	case errors.Is(err, pantry.ErrNotInPantry):
		return http.StatusNotFound, common.ErrIngredientMissing.Code, err.Error()
	case errors.Is(err, measure.ErrUnknownUnit):
		return http.StatusBadRequest, common.ErrUnknownUnit.Code, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, common.ErrCodeGatewayTimeout, "request timeout"
	case errors.As(err, &ce):
		return ce.Status, ce.Code, ce.Message
	default:
		return http.StatusInternalServerError, common.ErrCodeInternalError, common.ErrInternalError.Message
	}
}

// ParseID 解析路徑參數中的正整數 id
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
