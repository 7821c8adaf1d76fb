package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"recipe-chat/internal/api"
	"recipe-chat/internal/api/handlers/health"
	"recipe-chat/internal/core/ai/cache"
	"recipe-chat/internal/core/ai/queue"
	"recipe-chat/internal/core/backend"
	"recipe-chat/internal/core/chat"
	"recipe-chat/internal/core/lexicon"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LoggerOptions{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Service: cfg.App.Name,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("backend_url", cfg.Backend.BaseURL),
		zap.Duration("backend_timeout", cfg.Backend.Timeout),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 詞彙表
	lex := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		lex, err = lexicon.LoadFromYAML(cfg.Lexicon.Path)
		if err != nil {
			common.LogFatal("Failed to load lexicon", zap.String("path", cfg.Lexicon.Path), zap.Error(err))
		}
		common.LogInfo("已載入詞彙擴充", zap.String("path", cfg.Lexicon.Path))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化快取
	memoryCache := cache.NewManager(&cfg.Cache)
	if memoryCache != nil {
		defer memoryCache.Close()
	}
	redisCache, err := cache.NewService(ctx, &cfg.Redis)
	if err != nil {
		// Redis 連線失敗時只使用記憶體快取
		common.LogWarn("Redis unavailable, continuing without it", zap.Error(err))
		redisCache = nil
	}
	if redisCache != nil {
		defer redisCache.Close()
	}
	recipeCache := cache.NewLayered(memoryCache, redisCache)

	// 背景隊列（圖片生成）
	jobs := queue.NewManager(&cfg.Queue)
	jobs.Start(ctx)
	defer jobs.Close()

	// 工作階段
	registry := chat.NewRegistry(&cfg.Session, chat.Deps{
		Backend:    backend.NewClient(&cfg.Backend, recipeCache),
		Dispatcher: jobs,
		Lexicon:    lex,
	})
	defer registry.Close()

	var redisPing health.Pinger
	if redisCache != nil {
		redisPing = redisCache
	}
	healthHandler := health.NewHandler(cfg.App.Version, registry, jobs, recipeCache, redisPing)

	router := api.SetupRouter(cfg, registry, healthHandler)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogError("Failed to start server", zap.Error(err))
			stop()
		}
	}()

	// 等待中斷信號
	<-ctx.Done()

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
