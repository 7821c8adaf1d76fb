package api

import (
	"time"

	"recipe-chat/internal/api/handlers/health"
	"recipe-chat/internal/api/handlers/session"
	"recipe-chat/internal/api/middleware"
	"recipe-chat/internal/core/chat"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求體大小上限預設值 (1MB)
const defaultMaxBodySize = 1 << 20

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, registry *chat.Registry, healthHandler *health.Handler) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 請求體大小限制
	maxBodySize := cfg.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 健康檢查路由
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(
		middleware.RateLimit(cfg.RateLimit),
		middleware.Deduplication(cfg.DedupWindow),
		middleware.Timeout(cfg.Server.WriteTimeout),
	)
	session.NewHandler(registry, cfg.App.Debug).Register(api)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("request_timeout", cfg.Server.WriteTimeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}
