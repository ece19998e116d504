package cocktail

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"mixology-matcher/internal/core/cache"
	"mixology-matcher/internal/infrastructure/metrics"
	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 帶快取與指標的比對服務
type Service struct {
	matcher *Matcher
	cache   cache.Store
	metrics *metrics.Collector
	version atomic.Value // string，目錄資料版本，納入快取鍵
}

// NewService 創建比對服務，store 與 collector 可為 nil
func NewService(catalog Catalog, store cache.Store, collector *metrics.Collector) *Service {
	s := &Service{
		matcher: NewMatcher(catalog),
		cache:   store,
		metrics: collector,
	}
	s.version.Store("")
	return s
}

// SetDataVersion 目錄重新匯入後更新版本，使舊快取失效
func (s *Service) SetDataVersion(v string) {
	s.version.Store(v)
}

// DataVersion 目前資料版本
func (s *Service) DataVersion() string {
	return s.version.Load().(string)
}

// Coverage 計算涵蓋表
func (s *Service) Coverage(ctx context.Context, selectedIDs []int64, allowSubstitution bool) (Coverage, error) {
	return s.matcher.ResolveCoverage(ctx, selectedIDs, allowSubstitution)
}

// Match 比對並快取結果
func (s *Service) Match(ctx context.Context, selectedIDs []int64, opts MatchOptions) ([]MatchResult, error) {
	selected := uniqueIDs(selectedIDs)
	if len(selected) == 0 {
		return []MatchResult{}, nil
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}

	key := s.cacheKey(selected, opts)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	matches, err := s.matcher.FindMatches(ctx, selected, opts)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveMatch(string(opts.Mode), len(matches), time.Since(start))

	s.store(ctx, key, matches)
	return matches, nil
}

// PerfectMatches 命中率 100% 的配方，忽略 opts 的門檻
func (s *Service) PerfectMatches(ctx context.Context, selectedIDs []int64, opts MatchOptions) ([]MatchResult, error) {
	opts.MinMatchPercentage = 100
	return s.Match(ctx, selectedIDs, opts)
}

// PartialMatches 命中率未達 100% 但不低於 opts 門檻的配方
func (s *Service) PartialMatches(ctx context.Context, selectedIDs []int64, opts MatchOptions) ([]MatchResult, error) {
	matches, err := s.Match(ctx, selectedIDs, opts)
	if err != nil {
		return nil, err
	}
	partial := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.MatchPercentage < 100 {
			partial = append(partial, m)
		}
	}
	return partial, nil
}

// cacheKey 選擇順序會影響分配結果，鍵保留原順序
func (s *Service) cacheKey(selected []int64, opts MatchOptions) string {
	ids := make([]string, len(selected))
	for i, id := range selected {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return cache.Key("match",
		strings.Join(ids, ","),
		strconv.FormatFloat(opts.MinMatchPercentage, 'f', -1, 64),
		string(opts.Mode),
		strconv.FormatBool(opts.AllowSubstitution),
		strconv.FormatBool(opts.SkipInvalid),
		s.DataVersion(),
	)
}

func (s *Service) lookup(ctx context.Context, key string) ([]MatchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取比對快取失敗", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}

	var matches []MatchResult
	if err := json.Unmarshal(data, &matches); err != nil {
		common.LogWarn("比對快取內容無法解析", zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}
	s.metrics.RecordCacheLookup(true)
	return matches, true
}

func (s *Service) store(ctx context.Context, key string, matches []MatchResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(matches)
	if err != nil {
		common.LogWarn("比對結果序列化失敗", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("寫入比對快取失敗", zap.Error(err))
	}
}
