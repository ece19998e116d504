package cache

import (
	"context"
	"errors"
	"fmt"

	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service Redis 快取服務
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建 Redis 快取服務並測試連線
func NewService(cfg *config.CacheConfig) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("redis", key)
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	common.LogCacheHit("redis", key)
	return data, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete 刪除緩存
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Stats 連線池統計
func (s *Service) Stats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"backend":     config.CacheBackendRedis,
		"hits":        int64(ps.Hits),
		"misses":      int64(ps.Misses),
		"timeouts":    int64(ps.Timeouts),
		"total_conns": int64(ps.TotalConns),
		"idle_conns":  int64(ps.IdleConns),
	}
}

// Ping 檢查連線
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}
