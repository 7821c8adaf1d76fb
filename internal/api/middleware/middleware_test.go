package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Code
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, time.Minute, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are limited independently")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(time.Minute)
	rl.Allow("b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")
}

func TestRateLimit_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Hour, Burst: 1}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", "").Code)

	w := serve(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Equal(t, common.ErrCodeTooManyRequests, errorCode(t, w))
}

func TestRateLimit_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(config.RateLimitConfig{Enabled: false, Requests: 1, Window: time.Hour}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", "").Code)
	}
}

func TestDeduplicator_Window(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d := NewDeduplicator(time.Second)
	d.now = func() time.Time { return now }

	assert.False(t, d.Seen("x"))
	assert.True(t, d.Seen("x"))

	now = now.Add(1500 * time.Millisecond)
	assert.False(t, d.Seen("x"))
	assert.False(t, d.Seen("y"))
}

func TestDeduplication_Middleware(t *testing.T) {
	router := gin.New()
	router.Use(Deduplication(time.Minute))
	var bodies []string
	router.POST("/messages", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		bodies = append(bodies, string(b))
		c.Status(http.StatusOK)
	})
	router.GET("/messages", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/messages", `{"text":"hi"}`).Code)

	w := serve(router, http.MethodPost, "/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, common.ErrCodeTooManyRequests, errorCode(t, w))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/messages", `{"text":"bye"}`).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/messages", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/messages", "").Code)

	// 處理器仍能讀到完整的請求體
	assert.Equal(t, []string{`{"text":"hi"}`, `{"text":"bye"}`}, bodies)
}

func TestDeduplication_BodylessActionsAndOtherSessions(t *testing.T) {
	router := gin.New()
	router.Use(Deduplication(time.Minute))
	router.POST("/sessions", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.POST("/sessions/:id/:action", func(c *gin.Context) { c.Status(http.StatusOK) })

	// 同一 NAT 後的多個使用者各自建立工作階段
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/sessions", "").Code)
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/sessions", "").Code)

	for _, action := range []string{"confirm", "blur", "start-fresh"} {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/sessions/a/"+action, "").Code, action)
		assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/sessions/a/"+action, "").Code, action)
	}

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/sessions/a/messages", `{"text":"hi"}`).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/sessions/b/messages", `{"text":"hi"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "/sessions/b/messages", `{"text":"hi"}`).Code)
}

func TestBodySizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(8))
	router.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/", "short").Code)

	w := serve(router, http.MethodPost, "/", "this body is too long")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, common.ErrCodePayloadTooLarge, errorCode(t, w))
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(10 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	router.GET("/fast", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(router, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, common.ErrCodeGatewayTimeout, errorCode(t, w))

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, "/fast", "").Code)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(), Recovery(), Logger())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.ErrCodeInternalError, errorCode(t, w))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
