package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mixology-matcher/internal/api"
	"mixology-matcher/internal/api/handlers/health"
	"mixology-matcher/internal/core/cache"
	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/core/favorites"
	"mixology-matcher/internal/core/importer"
	"mixology-matcher/internal/core/pantry"
	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/infrastructure/metrics"
	"mixology-matcher/internal/infrastructure/store"
	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database", cfg.Database.DSN),
		zap.String("catalog_source", cfg.Catalog.SourceURL),
		zap.String("data_version", cfg.Catalog.DataVersion),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	policy, err := loadPolicy(&cfg.Catalog)
	if err != nil {
		common.LogFatal("Failed to load substitution policy", zap.Error(err))
	}
	common.LogInfo("替代分組", zap.Strings("categories", policy.Categories()))

	// 資料庫
	db, err := store.Open(&cfg.Database, policy)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	// 快取，停用時為 nil
	cacheStore, err := cache.NewStore(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	matchSvc := cocktail.NewService(db, cacheStore, collector)
	pantrySvc := pantry.NewService(db.Pantry(), db, matchSvc)
	favoritesSvc := favorites.NewService(db.Favorites(), db)

	source, err := importer.NewSource(&cfg.Catalog)
	if err != nil {
		common.LogFatal("Failed to configure catalog source", zap.Error(err))
	}
	im := importer.New(db, source, cfg.Catalog.DataVersion, matchSvc, collector)

	if cfg.Catalog.ImportOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		result, err := im.EnsureCatalog(ctx, false)
		cancel()
		if err != nil {
			// 沿用既有資料，之後可由 /admin/import 重試
			common.LogError(common.MsgImportFailed, zap.Error(err))
			restoreDataVersion(im)
		} else {
			common.LogInfo(result.Message, zap.String("version", result.Version))
		}
	} else {
		restoreDataVersion(im)
	}

	pingers := map[string]health.Pinger{"database": db}
	if p, ok := cacheStore.(health.Pinger); ok {
		pingers["cache"] = p
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Catalog:     db,
		Matcher:     matchSvc,
		Pantry:      pantrySvc,
		Favorites:   favoritesSvc,
		Importer:    im,
		Metrics:     collector,
		DataVersion: matchSvc.DataVersion,
		Pingers:     pingers,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo(common.MsgStartup,
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShutdown)

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		return
	}

	common.LogInfo(common.MsgExited)
}

// loadPolicy 設定檔優先，其次為類型清單，都沒有時用預設值
func loadPolicy(cfg *config.CatalogConfig) (*cocktail.SubstitutionPolicy, error) {
	if cfg.SubstitutionFile != "" {
		return cocktail.LoadSubstitutionPolicy(cfg.SubstitutionFile)
	}
	return cocktail.NewSubstitutionPolicy(cfg.SubstitutionCategories), nil
}

// restoreDataVersion 以資料庫記錄的版本與批次作為快取鍵的一部分
func restoreDataVersion(im *importer.Importer) {
	if err := im.RestoreVersion(context.Background()); err != nil {
		common.LogWarn("讀取資料版本失敗", zap.Error(err))
	}
}
