package catalog

import (
	"context"
	"net/http"
	"strconv"

	"mixology-matcher/internal/api/handlers"
	"mixology-matcher/internal/core/cocktail"

	"github.com/gin-gonic/gin"
)

// Reader 目錄查詢
type Reader interface {
	SearchIngredients(ctx context.Context, query string) ([]cocktail.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*cocktail.Ingredient, error)
	ListCategories(ctx context.Context) ([]cocktail.Category, error)
	ListRecipesByCategory(ctx context.Context, categoryID int64) ([]cocktail.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*cocktail.Recipe, error)
	Counts(ctx context.Context) (cocktail.CatalogStats, error)
}

// Handler 目錄處理程序
type Handler struct {
	reader Reader
}

// NewHandler 創建目錄處理程序
func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

// HandleSearchIngredients GET /ingredients?q=
func (h *Handler) HandleSearchIngredients(c *gin.Context) {
	ings, err := h.reader.SearchIngredients(c.Request.Context(), c.Query("q"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ings, "count": len(ings)})
}

// HandleGetIngredient GET /ingredients/:id
func (h *Handler) HandleGetIngredient(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	ing, err := h.reader.GetIngredient(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// HandleListCategories GET /categories
func (h *Handler) HandleListCategories(c *gin.Context) {
	cats, err := h.reader.ListCategories(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// HandleCategoryCocktails GET /categories/:id/cocktails
func (h *Handler) HandleCategoryCocktails(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	recipes, err := h.reader.ListRecipesByCategory(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": recipes, "count": len(recipes)})
}

// HandleGetCocktail GET /cocktails/:id?scale=
//
// scale 會被限制在 1 到 10 之間。
func (h *Handler) HandleGetCocktail(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	scale := 1.0
	if raw := c.Query("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			handlers.BadRequest(c, "invalid scale")
			return
		}
		scale = cocktail.ClampScale(v)
	}

	recipe, err := h.reader.GetRecipe(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cocktail": recipe,
		"scale":    scale,
		"lines":    cocktail.ScaleLines(recipe, scale),
	})
}

// HandleStats GET /stats
func (h *Handler) HandleStats(c *gin.Context) {
	stats, err := h.reader.Counts(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
