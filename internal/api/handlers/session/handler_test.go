package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-chat/internal/core/backend"
	"recipe-chat/internal/core/chat"
	"recipe-chat/internal/core/suggestion"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	suggestErr error
}

func (b *stubBackend) ChatDishSuggestion(context.Context, backend.DishSuggestionRequest) (*common.DishSuggestionResult, error) {
	if b.suggestErr != nil {
		return nil, b.suggestErr
	}
	return &common.DishSuggestionResult{CompleteDish: &common.CompleteDish{
		Title:        "Lemon Garlic Chicken",
		Description:  "Bright and zesty weeknight chicken.",
		Ingredients:  []string{"chicken thighs", "lemon", "garlic"},
		Instructions: []string{"Sear", "Simmer"},
	}}, nil
}

func (b *stubBackend) GenerateDish(context.Context, backend.GenerateDishRequest) (*common.Dish, error) {
	return &common.Dish{Title: "Surprise Stew"}, nil
}

func (b *stubBackend) ModifyRecipe(context.Context, *common.Dish, string) (*common.ModifyResult, error) {
	return nil, errors.New("not implemented")
}

func (b *stubBackend) RecipeInfo(context.Context, string) (*common.Recipe, error) {
	return &common.Recipe{Ingredients: []string{"salt"}}, nil
}

func (b *stubBackend) GenerateImage(context.Context, *common.Dish) (string, error) {
	return "https://img.example.com/dish.png", nil
}

func (b *stubBackend) Chat(context.Context, []common.ChatTurn, *common.Dish) (string, error) {
	return "Sounds tasty.", nil
}

func newTestRouter(t *testing.T, b chat.Backend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := chat.NewRegistry(&config.SessionConfig{}, chat.Deps{Backend: b})
	t.Cleanup(registry.Close)

	router := gin.New()
	NewHandler(registry, false).Register(router.Group("/api/v1"))
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decode[chat.Snapshot](t, w)
	require.NotEmpty(t, snap.ID)
	assert.True(t, snap.InputEnabled)
	return snap.ID
}

func TestHandler_SuggestAndConfirm(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	id := createSession(t, router)
	base := "/api/v1/sessions/" + id

	w := do(t, router, http.MethodPost, base+"/messages", `{"text":"I need a quick 30-minute dinner idea"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decode[chat.Snapshot](t, w)
	require.NotNil(t, snap.PendingSuggestion)
	assert.Equal(t, suggestion.KindDish, snap.PendingSuggestion.Type)
	assert.False(t, snap.InputEnabled)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, chat.RoleUser, snap.Messages[0].Role)

	// 待確認建議存在時不接受新訊息
	w = do(t, router, http.MethodPost, base+"/messages", `{"text":"something else"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, common.ErrCodeSessionBusy, decode[common.ErrorResponse](t, w).Code)

	w = do(t, router, http.MethodPost, base+"/confirm", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap = decode[chat.Snapshot](t, w)
	require.NotNil(t, snap.CurrentDish)
	assert.Equal(t, "Lemon Garlic Chicken", snap.CurrentDish.Title)
	assert.Equal(t, "https://img.example.com/dish.png", snap.CurrentDish.Image)
	assert.Equal(t, chat.NavigateDish, snap.NavigateTo)
	assert.Nil(t, snap.PendingSuggestion)

	w = do(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode[chat.Snapshot](t, w).ID)
}

func TestHandler_RejectContinuesChat(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	base := "/api/v1/sessions/" + createSession(t, router)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, base+"/messages", `{"text":"surprise me"}`).Code)

	w := do(t, router, http.MethodPost, base+"/reject", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[chat.Snapshot](t, w)
	assert.Nil(t, snap.PendingSuggestion)
	assert.Nil(t, snap.PendingDish)
	assert.True(t, snap.InputEnabled)
}

func TestHandler_Errors(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	base := "/api/v1/sessions/" + createSession(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/api/v1/sessions/missing", "", http.StatusNotFound, common.ErrCodeSessionNotFound},
		{"confirm without pending", http.MethodPost, base + "/confirm", "", http.StatusConflict, common.ErrCodeNoPendingSuggestion},
		{"reject without pending", http.MethodPost, base + "/reject", "", http.StatusConflict, common.ErrCodeNoPendingSuggestion},
		{"missing text", http.MethodPost, base + "/messages", `{}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"malformed json", http.MethodPost, base + "/messages", `{"text":`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"view recipe without dish", http.MethodPost, base + "/view-recipe", "", http.StatusNotFound, common.ErrCodeNotFound},
		{"unknown tag type", http.MethodPost, base + "/tags", `{"type":"mood","value":"happy"}`, http.StatusBadRequest, common.ErrCodeUnknownTagType},
		{"remove tag without value", http.MethodDelete, base + "/tags?type=ingredient", "", http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[common.ErrorResponse](t, w).Code)
		})
	}
}

func TestHandler_BackendFailureIsChatMessage(t *testing.T) {
	router := newTestRouter(t, &stubBackend{suggestErr: common.ErrBackendUnavailable})
	base := "/api/v1/sessions/" + createSession(t, router)

	w := do(t, router, http.MethodPost, base+"/messages", `{"text":"surprise me"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[chat.Snapshot](t, w)
	require.NotEmpty(t, snap.Messages)
	assert.True(t, snap.Messages[len(snap.Messages)-1].IsError)
	assert.NotEmpty(t, snap.ChatError)
	assert.True(t, snap.InputEnabled)
}

func TestHandler_Tags(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	base := "/api/v1/sessions/" + createSession(t, router)

	w := do(t, router, http.MethodPost, base+"/tags", `{"type":"chat","value":"cozy"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[TagResponse](t, w)
	require.NotNil(t, resp.Added)
	assert.True(t, *resp.Added)
	require.Len(t, resp.Snapshot.Context.Tags, 1)
	assert.Equal(t, "Cozy", resp.Snapshot.Context.Tags[0].Label)

	w = do(t, router, http.MethodPost, base+"/tags", `{"type":"userWord","value":"Cozy"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, *decode[TagResponse](t, w).Added)

	w = do(t, router, http.MethodDelete, base+"/tags?type=chat&value=cozy", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[TagResponse](t, w)
	require.NotNil(t, resp.Removed)
	assert.Equal(t, 1, *resp.Removed)
	assert.Empty(t, resp.Snapshot.Context.Tags)
}

func TestHandler_PreferencesAndStartFresh(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	base := "/api/v1/sessions/" + createSession(t, router)

	w := do(t, router, http.MethodPut, base+"/preferences", `{"dietaryRestrictions":["Vegan"],"cuisines":["Thai"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[chat.Snapshot](t, w)
	assert.Equal(t, []string{"Vegan"}, snap.Preferences.DietaryRestrictions)
	assert.Len(t, snap.Context.Tags, 2)

	w = do(t, router, http.MethodPost, base+"/start-fresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode[chat.Snapshot](t, w)
	assert.Empty(t, snap.Messages)
	assert.Empty(t, snap.Context.Tags)
	assert.Equal(t, []string{"Thai"}, snap.Preferences.Cuisines)

	w = do(t, router, http.MethodPost, base+"/blur", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Delete(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	id := createSession(t, router)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/v1/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/v1/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/sessions/"+id, "").Code)
}
