package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RunsJobs(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 2, MaxSize: 10, JobTimeout: time.Second})
	m.Start(context.Background())
	defer m.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, m.Submit("count", func(ctx context.Context) {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 5, ran)
	mu.Unlock()
	assert.Eventually(t, func() bool {
		return m.GetQueueStatus().ProcessedCount == 5
	}, time.Second, 10*time.Millisecond)
}

func TestManager_FailuresCounted(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 10, JobTimeout: time.Second})
	m.Start(context.Background())
	defer m.Close()

	require.NoError(t, m.Enqueue(&Job{Name: "fail", Run: func(ctx context.Context) error {
		return errors.New("boom")
	}}))
	require.NoError(t, m.Enqueue(&Job{Name: "panic", Run: func(ctx context.Context) error {
		panic("bad")
	}}))

	assert.Eventually(t, func() bool {
		return m.GetQueueStatus().FailedCount == 2
	}, time.Second, 10*time.Millisecond)
}

func TestManager_FullAndClosed(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1})

	noop := func(ctx context.Context) {}
	require.NoError(t, m.Submit("a", noop))
	assert.ErrorIs(t, m.Submit("b", noop), common.ErrQueueFull)

	m.Close()
	assert.ErrorIs(t, m.Submit("c", noop), common.ErrQueueClosed)

	status := m.GetQueueStatus()
	assert.Equal(t, 1, status.QueueLength)
	assert.Equal(t, 1, status.MaxQueueSize)
}

func TestManager_JobTimeout(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1, JobTimeout: 20 * time.Millisecond})
	m.Start(context.Background())
	defer m.Close()

	done := make(chan error, 1)
	require.NoError(t, m.Enqueue(&Job{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}}))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job did not time out")
	}
}
