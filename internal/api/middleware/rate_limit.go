package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 以用戶端 IP 區分的令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	clients  map[string]*clientLimiter
	idleTTL  time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 創建新的限流器：window 內允許 requests 次，瞬間最多 burst 次
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	if burst <= 0 {
		burst = requests
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    burst,
		clients:  make(map[string]*clientLimiter),
		idleTTL:  10 * window,
		now:      time.Now,
	}
}

// Allow 檢查該用戶端是否允許請求
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[client]
	if !ok {
		rl.evictIdleLocked(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[client] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdleLocked 移除長時間沒有請求的用戶端
func (rl *RateLimiter) evictIdleLocked(now time.Time) {
	for k, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.clients, k)
		}
	}
}

// RateLimit 限流中間件
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewRateLimiter(cfg.Requests, cfg.Window, cfg.Burst)
	retryAfter := int(math.Ceil(cfg.Window.Seconds() / float64(cfg.Requests)))

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", max(retryAfter, 1)))
			status, body := common.ToResponse(common.ErrTooManyRequests, false)
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Next()
	}
}
