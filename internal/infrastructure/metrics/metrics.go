package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 服務監控指標，nil Collector 的方法皆為 no-op
type Collector struct {
	registry *prometheus.Registry

	matchDuration  *prometheus.HistogramVec
	matchResults   *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	importTotal    *prometheus.CounterVec
	importDuration prometheus.Histogram
	catalogSize    *prometheus.GaugeVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewCollector 建立指標並註冊到獨立的 registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		matchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mixology_match_duration_seconds",
				Help:    "Time taken to compute cocktail matches",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"mode"},
		),
		matchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mixology_match_results",
				Help:    "Number of cocktails returned per match request",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"mode"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mixology_match_cache_lookups_total",
				Help: "Match cache lookups by result",
			},
			[]string{"result"},
		),
		importTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mixology_catalog_imports_total",
				Help: "Catalog imports by status",
			},
			[]string{"status"},
		),
		importDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mixology_catalog_import_duration_seconds",
				Help:    "Time taken to import the catalog",
				Buckets: prometheus.DefBuckets,
			},
		),
		catalogSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mixology_catalog_records",
				Help: "Records in the catalog by kind",
			},
			[]string{"kind"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mixology_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mixology_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.matchDuration,
		c.matchResults,
		c.cacheLookups,
		c.importTotal,
		c.importDuration,
		c.catalogSize,
		c.httpRequests,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveMatch 記錄一次比對
func (c *Collector) ObserveMatch(mode string, results int, d time.Duration) {
	if c == nil {
		return
	}
	c.matchDuration.WithLabelValues(mode).Observe(d.Seconds())
	c.matchResults.WithLabelValues(mode).Observe(float64(results))
}

// RecordCacheLookup 記錄快取命中或未命中
func (c *Collector) RecordCacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// RecordImport 記錄目錄匯入
func (c *Collector) RecordImport(err error, d time.Duration) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.importTotal.WithLabelValues(status).Inc()
	c.importDuration.Observe(d.Seconds())
}

// SetCatalogSize 更新目錄筆數
func (c *Collector) SetCatalogSize(categories, cocktails, ingredients int) {
	if c == nil {
		return
	}
	c.catalogSize.WithLabelValues("categories").Set(float64(categories))
	c.catalogSize.WithLabelValues("cocktails").Set(float64(cocktails))
	c.catalogSize.WithLabelValues("ingredients").Set(float64(ingredients))
}

// ObserveHTTP 記錄一次 HTTP 請求
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Registry 供測試讀取
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler /metrics 端點
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
