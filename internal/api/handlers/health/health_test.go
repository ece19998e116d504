package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mixology-matcher/internal/core/cocktail"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fixedStats cocktail.CatalogStats

func (s fixedStats) Counts(ctx context.Context) (cocktail.CatalogStats, error) {
	return cocktail.CatalogStats(s), nil
}

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestReadinessCheck(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	populated := fixedStats{Categories: 1, Cocktails: 3, Ingredients: 5}

	h := NewHandler("1.0.0", nil, populated, map[string]Pinger{"database": ok})
	assert.Equal(t, http.StatusOK, serve(h.ReadinessCheck).Code)

	h = NewHandler("1.0.0", nil, populated, map[string]Pinger{"database": ok, "cache": down})
	w := serve(h.ReadinessCheck)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["cache"])

	h = NewHandler("1.0.0", nil, fixedStats{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h.ReadinessCheck).Code)
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler("1.2.3", func() string { return "v7" }, fixedStats{Cocktails: 2}, nil)
	w := serve(h.HealthCheck)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "v7", resp.DataVersion)
	require.NotNil(t, resp.Catalog)
	assert.Equal(t, 2, resp.Catalog.Cocktails)

	assert.Equal(t, http.StatusOK, serve(LivenessCheck).Code)
}
