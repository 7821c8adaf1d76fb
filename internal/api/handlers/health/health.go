package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-chat/internal/core/ai/cache"
	"recipe-chat/internal/core/ai/queue"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QueueReporter 提供背景隊列狀態
type QueueReporter interface {
	GetQueueStatus() *queue.Status
}

// CacheReporter 提供快取統計
type CacheReporter interface {
	Enabled() bool
	Stats() cache.Stats
}

// Pinger 外部依賴的連線檢查
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter 提供目前的工作階段數量
type SessionCounter interface {
	Len() int
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Sessions  int                    `json:"sessions"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	version  string
	sessions SessionCounter
	queue    QueueReporter
	cache    CacheReporter
	redis    Pinger
}

// NewHandler 創建健康檢查處理程序；queue、cache、redis 可為 nil
func NewHandler(version string, sessions SessionCounter, q QueueReporter, c CacheReporter, redis Pinger) *Handler {
	return &Handler{
		version:  version,
		sessions: sessions,
		queue:    q,
		cache:    c,
		redis:    redis,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
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
	if h.sessions != nil {
		response.Sessions = h.sessions.Len()
	}
	if h.queue != nil {
		response.Queue = h.queue.GetQueueStatus()
	}
	if h.cache != nil && h.cache.Enabled() {
		stats := h.cache.Stats()
		response.Cache = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：Redis 已啟用時需可連線，隊列不可滿載
func (h *Handler) ReadinessCheck(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			common.LogWarn("Redis 就緒檢查失敗", zap.Error(err))
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.queue != nil {
		status := h.queue.GetQueueStatus()
		if status.MaxQueueSize > 0 && status.QueueLength >= status.MaxQueueSize {
			checks["queue"] = "full"
			ready = false
		} else {
			checks["queue"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
