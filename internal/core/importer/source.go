package importer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const (
	cocktailsPath   = "/cocktails.json"
	ingredientsPath = "/ingredients.json"
)

// Dataset 來源原始資料
type Dataset struct {
	Cocktails   []RawCocktail
	Ingredients []RawIngredient
}

// Source 目錄資料來源
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Describe() string
}

// NewSource 依設定選擇來源，source_url 優先於本機檔案
func NewSource(cfg *config.CatalogConfig) (Source, error) {
	if cfg.SourceURL != "" {
		return NewHTTPSource(cfg.SourceURL, cfg.SourceTimeout), nil
	}
	if cfg.CocktailsFile == "" || cfg.IngredientsFile == "" {
		return nil, fmt.Errorf("catalog source not configured")
	}
	return &FileSource{CocktailsFile: cfg.CocktailsFile, IngredientsFile: cfg.IngredientsFile}, nil
}

// FileSource 本機 JSON 檔
type FileSource struct {
	CocktailsFile   string
	IngredientsFile string
}

// Load 讀取兩個 JSON 檔
func (s *FileSource) Load(ctx context.Context) (*Dataset, error) {
	var ds Dataset
	if err := readJSONFile(s.CocktailsFile, &ds.Cocktails); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := readJSONFile(s.IngredientsFile, &ds.Ingredients); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Describe 來源說明
func (s *FileSource) Describe() string {
	return "file:" + s.CocktailsFile
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := common.ParseJSONBytes(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// HTTPSource 遠端 JSON，讀取 <base>/cocktails.json 與 <base>/ingredients.json
type HTTPSource struct {
	baseURL string
	client  *resty.Client
}

// NewHTTPSource 創建遠端來源
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")

	return &HTTPSource{baseURL: baseURL, client: client}
}

// Load 下載兩份 JSON
func (s *HTTPSource) Load(ctx context.Context) (*Dataset, error) {
	var ds Dataset
	if err := s.fetch(ctx, cocktailsPath, &ds.Cocktails); err != nil {
		return nil, err
	}
	if err := s.fetch(ctx, ingredientsPath, &ds.Ingredients); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Describe 來源說明
func (s *HTTPSource) Describe() string {
	return s.baseURL
}

func (s *HTTPSource) fetch(ctx context.Context, path string, v interface{}) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("catalog source returned %d for %s", resp.StatusCode(), path)
	}
	if err := common.ParseJSONBytes(resp.Body(), v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
