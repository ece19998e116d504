package favorites

import (
	"context"
	"net/http"

	"mixology-matcher/internal/api/handlers"
	core "mixology-matcher/internal/core/favorites"

	"github.com/gin-gonic/gin"
)

// Service 收藏服務
type Service interface {
	List(ctx context.Context) ([]core.Entry, error)
	Add(ctx context.Context, cocktailID int64) error
	Remove(ctx context.Context, cocktailID int64) error
	Toggle(ctx context.Context, cocktailID int64) (bool, error)
	IsFavorite(ctx context.Context, cocktailID int64) (bool, error)
}

// Handler 收藏處理程序
type Handler struct {
	svc Service
}

// NewHandler 創建收藏處理程序
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleList GET /favorites
func (h *Handler) HandleList(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": entries, "count": len(entries)})
}

// HandleGet GET /favorites/:cocktail_id
func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := handlers.ParseID(c, "cocktail_id")
	if !ok {
		return
	}
	fav, err := h.svc.IsFavorite(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktail_id": id, "favorite": fav})
}

// HandleAdd PUT /favorites/:cocktail_id
func (h *Handler) HandleAdd(c *gin.Context) {
	id, ok := handlers.ParseID(c, "cocktail_id")
	if !ok {
		return
	}
	if err := h.svc.Add(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktail_id": id, "favorite": true})
}

// HandleRemove DELETE /favorites/:cocktail_id
func (h *Handler) HandleRemove(c *gin.Context) {
	id, ok := handlers.ParseID(c, "cocktail_id")
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleToggle POST /favorites/:cocktail_id/toggle
func (h *Handler) HandleToggle(c *gin.Context) {
	id, ok := handlers.ParseID(c, "cocktail_id")
	if !ok {
		return
	}
	fav, err := h.svc.Toggle(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktail_id": id, "favorite": fav})
}
