package chat

import (
	"fmt"
	"sync"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Registry 工作階段管理器；閒置超過 TTL 的工作階段會被定期清除
type Registry struct {
	config *config.SessionConfig
	deps   Deps

	mu       sync.RWMutex
	sessions map[string]*Session

	stop chan struct{}
	once sync.Once
}

// NewRegistry 創建工作階段管理器並啟動清理
func NewRegistry(cfg *config.SessionConfig, deps Deps) *Registry {
	deps.HistoryLimit = cfg.DishHistoryLimit
	deps.TypingMinVisible = cfg.TypingMinVisible
	r := &Registry{
		config:   cfg,
		deps:     deps.withDefaults(),
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	if cfg.TTL > 0 && cfg.CleanupInterval > 0 {
		go r.startCleanup()
	}
	return r
}

// Create 建立新的工作階段
func (r *Registry) Create() *Session {
	s := NewSession("", r.deps)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	count := len(r.sessions)
	r.mu.Unlock()

	common.LogInfo("工作階段已建立", zap.String("session_id", s.ID()), zap.Int("sessions", count))
	return s
}

// Get 取得工作階段並更新最後活動時間
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrSessionNotFound.Wrap(fmt.Errorf("session %q", id))
	}
	s.touch()
	return s, nil
}

// Delete 刪除工作階段
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.Blur()
		delete(r.sessions, id)
	}
	return ok
}

// Len 目前的工作階段數量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// startCleanup 啟動清理過期工作階段的協程
func (r *Registry) startCleanup() {
	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Cleanup()
		case <-r.stop:
			return
		}
	}
}

// Cleanup 清除閒置超過 TTL 的工作階段，回傳清除數量
func (r *Registry) Cleanup() int {
	if r.config.TTL <= 0 {
		return 0
	}
	now := r.deps.Clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > r.config.TTL {
			s.Blur()
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		common.LogInfo("清除過期工作階段",
			zap.Int("removed", removed),
			zap.Int("remaining", len(r.sessions)),
		)
	}
	return removed
}

// Close 停止清理協程
func (r *Registry) Close() {
	r.once.Do(func() {
		close(r.stop)
	})
}
