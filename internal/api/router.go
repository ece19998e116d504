package api

import (
	"fmt"
	"time"

	adminHandler "mixology-matcher/internal/api/handlers/admin"
	catalogHandler "mixology-matcher/internal/api/handlers/catalog"
	favoritesHandler "mixology-matcher/internal/api/handlers/favorites"
	"mixology-matcher/internal/api/handlers/health"
	matchHandler "mixology-matcher/internal/api/handlers/match"
	measureHandler "mixology-matcher/internal/api/handlers/measure"
	pantryHandler "mixology-matcher/internal/api/handlers/pantry"
	"mixology-matcher/internal/api/middleware"
	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/infrastructure/metrics"
	"mixology-matcher/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 未設定時的預設超時
	defaultTimeout = 15 * time.Second
	// 未設定時的請求體大小限制 (1MB)
	defaultMaxBodySize = 1 << 20
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Catalog   catalogHandler.Reader
	Matcher   matchHandler.Matcher
	Pantry    pantryHandler.Service
	Favorites favoritesHandler.Service
	Importer  adminHandler.Importer
	Metrics   *metrics.Collector

	// DataVersion 目前生效的資料版本，可為 nil
	DataVersion func() string
	// Pingers 就緒檢查的依賴
	Pingers map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Matcher == nil || deps.Pantry == nil {
		return nil, fmt.Errorf("catalog, matcher and pantry services are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger(deps.Metrics))

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 健康檢查路由不受限流
	healthHandler := health.NewHandler(cfg.App.Version, deps.DataVersion, deps.Catalog, deps.Pingers)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	if cfg.Metrics.Enabled && deps.Metrics != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Handler())
	api.Use(middleware.Timeout(timeout))
	{
		catalog := catalogHandler.NewHandler(deps.Catalog)
		api.GET("/stats", catalog.HandleStats)
		api.GET("/ingredients", catalog.HandleSearchIngredients)
		api.GET("/ingredients/:id", catalog.HandleGetIngredient)
		api.GET("/categories", catalog.HandleListCategories)
		api.GET("/categories/:id/cocktails", catalog.HandleCategoryCocktails)
		api.GET("/cocktails/:id", catalog.HandleGetCocktail)

		match := matchHandler.NewHandler(deps.Matcher)
		matchGroup := api.Group("/match")
		{
			matchGroup.POST("", match.HandleMatch)
			matchGroup.POST("/export", match.HandleExport)
			matchGroup.POST("/shopping-list", match.HandleShoppingList)
		}
		api.POST("/coverage", match.HandleCoverage)

		pantry := pantryHandler.NewHandler(deps.Pantry)
		pantryGroup := api.Group("/pantry")
		{
			pantryGroup.GET("", pantry.HandleList)
			pantryGroup.POST("", pantry.HandleAdd)
			pantryGroup.DELETE("", pantry.HandleClear)
			pantryGroup.GET("/matches", pantry.HandleMatches)
			pantryGroup.GET("/:ingredient_id", pantry.HandleQuantity)
			pantryGroup.PUT("/:ingredient_id", pantry.HandleSet)
			pantryGroup.DELETE("/:ingredient_id", pantry.HandleRemove)
			pantryGroup.POST("/:ingredient_id/use", pantry.HandleUse)
			pantryGroup.GET("/:ingredient_id/enough", pantry.HandleEnough)
		}

		if deps.Favorites != nil {
			favorites := favoritesHandler.NewHandler(deps.Favorites)
			favoritesGroup := api.Group("/favorites")
			{
				favoritesGroup.GET("", favorites.HandleList)
				favoritesGroup.GET("/:cocktail_id", favorites.HandleGet)
				favoritesGroup.PUT("/:cocktail_id", favorites.HandleAdd)
				favoritesGroup.DELETE("/:cocktail_id", favorites.HandleRemove)
				favoritesGroup.POST("/:cocktail_id/toggle", favorites.HandleToggle)
			}
		}

		api.POST("/measure/parse", measureHandler.HandleParse)
		api.POST("/measure/format", measureHandler.HandleFormat)
		api.POST("/units/convert", measureHandler.HandleConvert)
		api.POST("/units/simplify", measureHandler.HandleSimplify)

		if deps.Importer != nil {
			admin := adminHandler.NewHandler(deps.Importer)
			api.POST("/admin/import", admin.HandleImport)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
