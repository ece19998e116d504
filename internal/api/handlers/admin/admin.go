package admin

import (
	"context"
	"net/http"
	"strconv"

	"mixology-matcher/internal/api/handlers"
	"mixology-matcher/internal/core/importer"
	"mixology-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Importer 目錄匯入
type Importer interface {
	EnsureCatalog(ctx context.Context, force bool) (*importer.Result, error)
}

// Handler 管理處理程序
type Handler struct {
	importer Importer
}

// NewHandler 創建管理處理程序
func NewHandler(im Importer) *Handler {
	return &Handler{importer: im}
}

// HandleImport POST /admin/import?force=true
func (h *Handler) HandleImport(c *gin.Context) {
	force := false
	if raw := c.Query("force"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.BadRequest(c, "invalid force flag")
			return
		}
		force = v
	}

	common.LogInfo("手動匯入目錄",
		zap.Bool("force", force),
		zap.String("request_id", handlers.RequestID(c)),
	)
	result, err := h.importer.EnsureCatalog(c.Request.Context(), force)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
