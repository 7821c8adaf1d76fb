package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App          AppConfig       `mapstructure:"app"`
	Server       ServerConfig    `mapstructure:"server"`
	Backend      BackendConfig   `mapstructure:"backend"`
	Session      SessionConfig   `mapstructure:"session"`
	Cache        CacheConfig     `mapstructure:"cache"`
	Redis        RedisConfig     `mapstructure:"redis"`
	Queue        QueueConfig     `mapstructure:"queue"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	Lexicon      LexiconConfig   `mapstructure:"lexicon"`
	DedupWindow  time.Duration   `mapstructure:"dedup_window"`
	MaxBodyBytes int64           `mapstructure:"max_body_bytes"`
	LogLevel     string          `mapstructure:"log_level"`
	LogDir       string          `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// BackendConfig 菜色後端設定
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig 對話工作階段設定
type SessionConfig struct {
	TTL              time.Duration `mapstructure:"ttl"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`
	DishHistoryLimit int           `mapstructure:"dish_history_limit"`
	TypingMinVisible time.Duration `mapstructure:"typing_min_visible"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig 第二層緩存設定
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// QueueConfig 圖片生成隊列設定
type QueueConfig struct {
	Workers    int           `mapstructure:"workers"`
	MaxSize    int           `mapstructure:"max_size"`
	JobTimeout time.Duration `mapstructure:"job_timeout"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

// LexiconConfig 額外關鍵字檔設定
type LexiconConfig struct {
	Path string `mapstructure:"path"`
}

// 環境變數別名
var envAliases = map[string]string{
	"backend.base_url":   "BACKEND_BASE_URL",
	"backend.timeout":    "BACKEND_TIMEOUT",
	"redis.enabled":      "REDIS_ENABLED",
	"redis.addr":         "REDIS_ADDR",
	"redis.password":     "REDIS_PASSWORD",
	"cache.enabled":      "CACHE_ENABLED",
	"rate_limit.enabled": "RATE_LIMIT_ENABLED",
	"dedup_window":       "DEDUP_WINDOW",
	"lexicon.path":       "LEXICON_PATH",
	"log_level":          "LOG_LEVEL",
	"log_dir":            "LOG_DIR",
	"server.port":        "PORT",
}

// LoadConfig 載入設定：預設值、config.yaml、.env 與環境變數
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時略過）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	for key, env := range envAliases {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

// Default 只含預設值的設定
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-chat")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// 菜色後端設定
	v.SetDefault("backend.base_url", "http://localhost:3000/api")
	v.SetDefault("backend.timeout", "60s")

	// 對話設定
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_interval", "5m")
	v.SetDefault("session.dish_history_limit", 5)
	v.SetDefault("session.typing_min_visible", "600ms")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Redis 設定
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "72h")
	v.SetDefault("redis.prefix", "recipe-chat")

	// 隊列設定
	v.SetDefault("queue.workers", 3)
	v.SetDefault("queue.max_size", 100)
	v.SetDefault("queue.job_timeout", "90s")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("lexicon.path", "")
	v.SetDefault("dedup_window", "1s")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證後端設定
	u, err := url.Parse(config.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend base url %q", config.Backend.BaseURL)
	}
	if config.Backend.Timeout <= 0 {
		return fmt.Errorf("invalid backend timeout")
	}

	// 驗證對話設定
	if config.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl")
	}
	if config.Session.CleanupInterval <= 0 {
		return fmt.Errorf("invalid session cleanup interval")
	}
	if config.Session.DishHistoryLimit <= 0 {
		return fmt.Errorf("invalid dish history limit")
	}
	if config.Session.TypingMinVisible < 0 {
		return fmt.Errorf("invalid typing indicator duration")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
