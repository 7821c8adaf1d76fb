package chat

import (
	"testing"
	"time"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(&config.SessionConfig{DishHistoryLimit: 3}, Deps{Backend: &fakeBackend{}})
	defer r.Close()

	s := r.Create()
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	assert.True(t, r.Delete(s.ID()))
	assert.False(t, r.Delete(s.ID()))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_UsesSessionConfig(t *testing.T) {
	r := NewRegistry(&config.SessionConfig{DishHistoryLimit: 2, TypingMinVisible: time.Second}, Deps{Backend: &fakeBackend{}})
	defer r.Close()

	s := r.Create()
	for _, title := range []string{"A", "B", "C"} {
		s.Context().TrackDish(&common.Dish{Title: title})
	}
	history := s.Context().DishHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "C", history[0].Title)
	assert.Equal(t, time.Second, s.typing.minVisible)
}

func TestRegistry_CleanupExpired(t *testing.T) {
	clock := &testClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(&config.SessionConfig{TTL: time.Hour}, Deps{Backend: &fakeBackend{}, Clock: clock.now})
	defer r.Close()

	idle := r.Create()
	active := r.Create()

	clock.advance(50 * time.Minute)
	_, err := r.Get(active.ID())
	require.NoError(t, err)

	clock.advance(20 * time.Minute)
	assert.Equal(t, 1, r.Cleanup())

	_, err = r.Get(idle.ID())
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
	_, err = r.Get(active.ID())
	assert.NoError(t, err)
}

func TestRegistry_NoTTLNeverExpires(t *testing.T) {
	clock := &testClock{t: time.Now()}
	r := NewRegistry(&config.SessionConfig{}, Deps{Backend: &fakeBackend{}, Clock: clock.now})
	defer r.Close()

	r.Create()
	clock.advance(24 * time.Hour)
	assert.Equal(t, 0, r.Cleanup())
	assert.Equal(t, 1, r.Len())

	r.Close()
	r.Close()
}
