package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "recipe-chat", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Session.DishHistoryLimit)
	assert.Equal(t, 600*time.Millisecond, cfg.Session.TypingMinVisible)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BACKEND_BASE_URL", "https://dish.example.com/api")
	t.Setenv("APP_SESSION_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://dish.example.com/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	yaml := "session:\n  typing_min_visible: 1s\nqueue:\n  workers: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Session.TypingMinVisible)
	assert.Equal(t, 7, cfg.Queue.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BACKEND_BASE_URL", "not a url")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	cfg := Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = ""
	assert.Error(t, validateConfig(cfg))

	cfg = Default()
	cfg.Session.DishHistoryLimit = 0
	assert.Error(t, validateConfig(cfg))

	cfg = Default()
	cfg.Cache.Enabled = false
	cfg.Cache.MaxSize = 0
	assert.NoError(t, validateConfig(cfg))
}
