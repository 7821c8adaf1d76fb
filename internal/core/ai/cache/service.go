package cache

import (
	"context"
	"errors"
	"fmt"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service Redis 緩存服務（第二層）
type Service struct {
	client *redis.Client
	config *config.RedisConfig
}

// NewService 創建 Redis 緩存服務；停用時回傳 nil
func NewService(ctx context.Context, cfg *config.RedisConfig) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.Get(ctx, s.generateKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("redis", key)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	common.LogCacheHit("redis", key)
	return data, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.generateKey(key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(key string) string {
	return fmt.Sprintf("%s:%s", s.config.Prefix, key)
}
