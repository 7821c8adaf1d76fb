package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 背景工作
type Job struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 隊列管理器
type Manager struct {
	config    *config.QueueConfig
	queue     chan *Job
	done      chan struct{}
	processed int64
	failed    int64
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(cfg *config.QueueConfig) *Manager {
	return &Manager{
		config: cfg,
		queue:  make(chan *Job, cfg.MaxSize),
		done:   make(chan struct{}),
	}
}

// Start 啟動 worker；ctx 取消時 worker 結束
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		for i := 0; i < m.config.Workers; i++ {
			m.wg.Add(1)
			go m.worker(ctx, i)
		}
		common.LogInfo("隊列 worker 已啟動",
			zap.Int("workers", m.config.Workers),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
	})
}

// Enqueue 將工作加入隊列；隊列已滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(job *Job) error {
	if job.ID == "" {
		job.ID = common.GenerateUUID()
	}

	select {
	case <-m.done:
		return common.ErrQueueClosed
	default:
	}

	select {
	case m.queue <- job:
		common.LogDebug("Job enqueued",
			zap.String("job_id", job.ID),
			zap.String("job", job.Name),
			zap.Int("queue_length", len(m.queue)),
		)
		return nil
	case <-m.done:
		return common.ErrQueueClosed
	default:
		return common.ErrQueueFull
	}
}

// Submit 以名稱加入一個函式工作
func (m *Manager) Submit(name string, fn func(ctx context.Context)) error {
	return m.Enqueue(&Job{Name: name, Run: func(ctx context.Context) error {
		fn(ctx)
		return nil
	}})
}

func (m *Manager) worker(ctx context.Context, id int) {
	defer m.wg.Done()
	for {
		select {
		case job := <-m.queue:
			m.run(ctx, id, job)
		case <-m.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// run 執行單一工作，逾時與 panic 都記為失敗
func (m *Manager) run(ctx context.Context, worker int, job *Job) {
	timeout := m.config.JobTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panic: %v", r)
			}
		}()
		return job.Run(jobCtx)
	}()

	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogError("Job failed",
			zap.String("job_id", job.ID),
			zap.String("job", job.Name),
			zap.Int("worker", worker),
			zap.Error(err),
		)
		return
	}
	common.LogDebug("Job finished",
		zap.String("job_id", job.ID),
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)),
	)
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 關閉隊列管理器並等待 worker 結束
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
