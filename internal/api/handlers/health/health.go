package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger 依賴的連線檢查
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider 目錄統計
type StatsProvider interface {
	Counts(ctx context.Context) (cocktail.CatalogStats, error)
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Version     string                 `json:"version"`
	DataVersion string                 `json:"data_version"`
	Catalog     *cocktail.CatalogStats `json:"catalog,omitempty"`
	Runtime     map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理程序
type Handler struct {
	version     string
	dataVersion func() string
	stats       StatsProvider
	pingers     map[string]Pinger
}

// NewHandler 創建健康檢查處理程序；dataVersion 與 stats 可為 nil
func NewHandler(version string, dataVersion func() string, stats StatsProvider, pingers map[string]Pinger) *Handler {
	return &Handler{
		version:     version,
		dataVersion: dataVersion,
		stats:       stats,
		pingers:     pingers,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.dataVersion != nil {
		response.DataVersion = h.dataVersion()
	}
	if h.stats != nil {
		stats, err := h.stats.Counts(c.Request.Context())
		if err != nil {
			common.LogWarn("讀取目錄統計失敗", zap.Error(err))
			response.Status = "degraded"
		} else {
			response.Catalog = &stats
		}
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，任一依賴失敗回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.pingers))
	ready := true
	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			common.LogWarn("依賴檢查失敗", zap.String("dependency", name), zap.Error(err))
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	// 目錄為空時無法提供比對
	if h.stats != nil {
		stats, err := h.stats.Counts(ctx)
		switch {
		case err != nil:
			checks["catalog"] = err.Error()
			ready = false
		case stats.Cocktails == 0:
			checks["catalog"] = common.ErrCatalogEmpty.Message
			ready = false
		default:
			checks["catalog"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
