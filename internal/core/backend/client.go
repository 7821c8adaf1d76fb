// Package backend 菜色後端的 HTTP 客戶端。
//
// 後端負責產生菜色、食譜、圖片與修改摘要；本套件只處理請求與回應格式。
package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-chat/internal/core/ai/cache"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	EndpointChatDishSuggestion = "/chat-dish-suggestion"
	EndpointGenerateDish       = "/generate-dish"
	EndpointModifyRecipe       = "/modify-recipe"
	EndpointRecipeInfo         = "/recipe-info"
	EndpointGenerateImage      = "/generate-image"
	EndpointChat               = "/chat"
)

// DishSuggestionRequest /chat-dish-suggestion 請求
type DishSuggestionRequest struct {
	UserMessage         string             `json:"userMessage"`
	Preferences         common.Preferences `json:"preferences"`
	ConversationContext string             `json:"conversationContext,omitempty"`
}

// GenerateDishRequest /generate-dish 請求
type GenerateDishRequest struct {
	DishName            string             `json:"dishName,omitempty"`
	Preferences         common.Preferences `json:"preferences"`
	ConversationContext string             `json:"conversationContext,omitempty"`
}

// ModifyRecipeRequest /modify-recipe 請求
type ModifyRecipeRequest struct {
	Dish         *common.Dish `json:"dish"`
	Modification string       `json:"modification"`
}

// ChatRequest /chat 請求
type ChatRequest struct {
	Messages    []common.ChatTurn `json:"messages"`
	CurrentDish *common.Dish      `json:"currentDish"`
}

type recipeInfoRequest struct {
	DishName string `json:"dishName"`
}

type generateImageRequest struct {
	Dish *common.Dish `json:"dish"`
}

type generateDishResponse struct {
	Dish *common.Dish `json:"dish"`
}

type recipeInfoResponse struct {
	Recipe *common.Recipe `json:"recipe"`
}

type generateImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Client 菜色後端客戶端
type Client struct {
	client *resty.Client
	cache  cache.Cache
}

// NewClient 創建後端客戶端；recipeCache 為 nil 時不緩存食譜資訊
func NewClient(cfg *config.BackendConfig, recipeCache cache.Cache) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		cache:  recipeCache,
	}
}

// ChatDishSuggestion 依使用者訊息取得完整菜色建議
func (c *Client) ChatDishSuggestion(ctx context.Context, req DishSuggestionRequest) (*common.DishSuggestionResult, error) {
	var result common.DishSuggestionResult
	if err := c.post(ctx, EndpointChatDishSuggestion, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateDish 依偏好產生新菜色
func (c *Client) GenerateDish(ctx context.Context, req GenerateDishRequest) (*common.Dish, error) {
	var result generateDishResponse
	if err := c.post(ctx, EndpointGenerateDish, req, &result); err != nil {
		return nil, err
	}
	if result.Dish == nil || result.Dish.Title == "" {
		return nil, common.ErrMalformedResponse.Wrap(fmt.Errorf("%s: missing dish", EndpointGenerateDish))
	}
	return result.Dish, nil
}

// ModifyRecipe 對菜色套用修改
func (c *Client) ModifyRecipe(ctx context.Context, dish *common.Dish, modification string) (*common.ModifyResult, error) {
	var result common.ModifyResult
	req := ModifyRecipeRequest{Dish: dish, Modification: modification}
	if err := c.post(ctx, EndpointModifyRecipe, req, &result); err != nil {
		return nil, err
	}
	if result.UpdatedDish.Title == "" {
		return nil, common.ErrMalformedResponse.Wrap(fmt.Errorf("%s: missing updatedDish", EndpointModifyRecipe))
	}
	return &result, nil
}

// RecipeInfo 取得菜名對應的食譜，結果會被緩存
func (c *Client) RecipeInfo(ctx context.Context, dishName string) (*common.Recipe, error) {
	key := cache.Key("recipe-info", strings.ToLower(strings.TrimSpace(dishName)))

	// 檢查緩存
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, key); err == nil {
			var cached common.Recipe
			if err := common.ParseJSON(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var result recipeInfoResponse
	if err := c.post(ctx, EndpointRecipeInfo, recipeInfoRequest{DishName: dishName}, &result); err != nil {
		return nil, err
	}
	if result.Recipe == nil || result.Recipe.IsEmpty() {
		return nil, common.ErrMalformedResponse.Wrap(fmt.Errorf("%s: missing recipe", EndpointRecipeInfo))
	}

	// 寫入緩存
	if c.cache != nil {
		if raw, err := common.ToJSON(result.Recipe); err == nil {
			if err := c.cache.Set(ctx, key, raw); err != nil {
				common.LogWarn("食譜快取寫入失敗", zap.String("dish", dishName), zap.Error(err))
			}
		}
	}
	return result.Recipe, nil
}

// GenerateImage 產生菜色圖片，回傳圖片網址
func (c *Client) GenerateImage(ctx context.Context, dish *common.Dish) (string, error) {
	var result generateImageResponse
	if err := c.post(ctx, EndpointGenerateImage, generateImageRequest{Dish: dish}, &result); err != nil {
		return "", err
	}
	if result.ImageURL == "" {
		return "", common.ErrMalformedResponse.Wrap(fmt.Errorf("%s: missing imageUrl", EndpointGenerateImage))
	}
	return result.ImageURL, nil
}

// Chat 一般對話
func (c *Client) Chat(ctx context.Context, messages []common.ChatTurn, currentDish *common.Dish) (string, error) {
	var result chatResponse
	if err := c.post(ctx, EndpointChat, ChatRequest{Messages: messages, CurrentDish: currentDish}, &result); err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Reply) == "" {
		return "", common.ErrMalformedResponse.Wrap(fmt.Errorf("%s: empty reply", EndpointChat))
	}
	return result.Reply, nil
}

// post 發送 JSON 請求並解析回應
func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		common.LogBackendCall(endpoint, time.Since(start), err)
	}()

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return common.ErrBackendUnavailable.Wrap(fmt.Errorf("%s: %w", endpoint, err))
	}

	if resp.IsError() {
		return common.ErrBackendUnavailable.Wrap(fmt.Errorf("%s returned %d: %s",
			endpoint, resp.StatusCode(), common.Truncate(resp.String(), 200)))
	}

	// 解析回應
	if err := common.ParseJSON(common.ExtractJSONObject(resp.String()), out); err != nil {
		return common.ErrMalformedResponse.Wrap(fmt.Errorf("%s: %w", endpoint, err))
	}
	return nil
}
