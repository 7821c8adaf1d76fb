package cache

import (
	"context"
	"errors"

	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Layered 先查記憶體，再查 Redis；Redis 命中時回填記憶體
type Layered struct {
	memory *CacheManager
	redis  *Service
}

// NewLayered 組合兩層緩存；任一層可為 nil
func NewLayered(memory *CacheManager, redis *Service) *Layered {
	return &Layered{memory: memory, redis: redis}
}

// Get 獲取緩存值
func (l *Layered) Get(ctx context.Context, key string) (string, error) {
	if l.memory != nil {
		if v, err := l.memory.Get(ctx, key); err == nil {
			return v, nil
		}
	}
	if l.redis == nil {
		return "", common.ErrCacheMiss
	}

	v, err := l.redis.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("Redis 快取讀取失敗", zap.Error(err))
		}
		return "", common.ErrCacheMiss
	}

	// 回填記憶體
	if l.memory != nil {
		_ = l.memory.Set(ctx, key, v)
	}
	return v, nil
}

// Set 同時寫入兩層；Redis 失敗只記錄警告
func (l *Layered) Set(ctx context.Context, key, value string) error {
	var err error
	if l.memory != nil {
		err = l.memory.Set(ctx, key, value)
	}
	if l.redis != nil {
		if rerr := l.redis.Set(ctx, key, value); rerr != nil {
			common.LogWarn("Redis 快取寫入失敗", zap.Error(rerr))
		}
	}
	return err
}

// Enabled 是否至少有一層可用
func (l *Layered) Enabled() bool {
	return l != nil && (l.memory != nil || l.redis != nil)
}

// Stats 記憶體層統計；未啟用時為零值
func (l *Layered) Stats() Stats {
	if l == nil || l.memory == nil {
		return Stats{}
	}
	return l.memory.GetStats()
}
