package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-chat/internal/pkg/common"
)

// DefaultDedupWindow 未設定時的去重時間窗
const DefaultDedupWindow = time.Second

// Deduplicator 以請求指紋記錄最近的 POST 請求
type Deduplicator struct {
	mu        sync.Mutex
	window    time.Duration
	requests  map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewDeduplicator 創建去重器
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Seen 記錄指紋；時間窗內已出現過則回傳 true
func (d *Deduplicator) Seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.sweepLocked(now)
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// sweepLocked 每隔 10 個時間窗清除過期指紋
func (d *Deduplicator) sweepLocked(now time.Time) {
	if now.Sub(d.lastSweep) < 10*d.window {
		return
	}
	for k, t := range d.requests {
		if now.Sub(t) > d.window {
			delete(d.requests, k)
		}
	}
	d.lastSweep = now
}

// Deduplication 請求去重中間件：相同用戶端在時間窗內對同一路徑重送相同 POST 內容時回傳 429
func Deduplication(window time.Duration) gin.HandlerFunc {
	dedup := NewDeduplicator(window)
	return func(c *gin.Context) {
		// 只處理有內容的 POST 請求
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status, resp := common.ToResponse(common.ErrPayloadTooLarge, false)
				c.AbortWithStatusJSON(status, resp)
				return
			}
			common.LogError("Failed to read request body", zap.Error(err))
			c.Next()
			return
		}
		// 恢復請求體
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		// 沒有內容的動作請求（建立、確認、清除等）不去重
		if len(bytes.TrimSpace(body)) == 0 {
			c.Next()
			return
		}

		// 請求指紋：用戶端 + 路徑（含工作階段 ID）+ 內容哈希
		hash := sha256.Sum256(body)
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(hash[:])

		if dedup.Seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			status, resp := common.ToResponse(common.ErrTooManyRequests, false)
			c.AbortWithStatusJSON(status, resp)
			return
		}

		c.Next()
	}
}
