package session

import (
	"net/http"
	"strings"

	"recipe-chat/internal/core/chat"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SendMessageRequest 送出聊天訊息
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// TagRequest 手動新增標籤
type TagRequest struct {
	Type  string `json:"type" binding:"required"`  // 標籤類型，例如 ingredient、style
	Value string `json:"value" binding:"required"` // 標籤值
}

// TagResponse 新增或移除標籤的結果
type TagResponse struct {
	Added    *bool         `json:"added,omitempty"`
	Removed  *int          `json:"removed,omitempty"`
	Snapshot chat.Snapshot `json:"session"`
}

// Handler 對話工作階段處理程序
type Handler struct {
	registry *chat.Registry
	debug    bool
}

// NewHandler 創建工作階段處理程序
func NewHandler(registry *chat.Registry, debug bool) *Handler {
	return &Handler{registry: registry, debug: debug}
}

// Register 註冊工作階段路由
func (h *Handler) Register(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.HandleCreate)
		sessions.GET("/:id", h.HandleGet)
		sessions.DELETE("/:id", h.HandleDelete)

		sessions.POST("/:id/messages", h.HandleSendMessage)
		sessions.POST("/:id/confirm", h.HandleConfirm)
		sessions.POST("/:id/reject", h.HandleReject)
		sessions.POST("/:id/view-recipe", h.HandleViewRecipe)
		sessions.POST("/:id/blur", h.HandleBlur)
		sessions.POST("/:id/start-fresh", h.HandleStartFresh)

		sessions.PUT("/:id/preferences", h.HandleUpdatePreferences)
		sessions.POST("/:id/tags", h.HandleAddTag)
		sessions.DELETE("/:id/tags", h.HandleRemoveTag)
	}
}

// HandleCreate 建立新的工作階段
func (h *Handler) HandleCreate(c *gin.Context) {
	s := h.registry.Create()
	c.JSON(http.StatusCreated, s.Snapshot())
}

// HandleGet 取得工作階段快照
func (h *Handler) HandleGet(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleDelete 刪除工作階段
func (h *Handler) HandleDelete(c *gin.Context) {
	if !h.registry.Delete(c.Param("id")) {
		h.fail(c, common.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSendMessage 送出使用者訊息並等待助理回覆
func (h *Handler) HandleSendMessage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	common.LogInfo("收到聊天訊息",
		zap.String("request_id", requestid.Get(c)),
		zap.String("session_id", s.ID()),
		zap.Int("length", len(req.Text)),
	)

	if err := s.HandleSend(c.Request.Context(), req.Text); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleConfirm 確認待確認建議
func (h *Handler) HandleConfirm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Confirm(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleReject 拒絕建議並繼續聊天
func (h *Handler) HandleReject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Reject(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleViewRecipe 查看目前菜色的食譜
func (h *Handler) HandleViewRecipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.ViewRecipe(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleBlur 離開聊天畫面
func (h *Handler) HandleBlur(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Blur()
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleStartFresh 重新開始對話
func (h *Handler) HandleStartFresh(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.StartFresh()
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleUpdatePreferences 以偏好設定畫面的選項取代結構化偏好
func (h *Handler) HandleUpdatePreferences(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var prefs common.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	s.UpdatePreferences(prefs)
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleAddTag 手動新增上下文標籤
func (h *Handler) HandleAddTag(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	added, err := s.AddTag(req.Type, req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, TagResponse{Added: &added, Snapshot: s.Snapshot()})
}

// HandleRemoveTag 移除上下文標籤；type 可使用 chat 分組名稱
func (h *Handler) HandleRemoveTag(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	typeName := strings.TrimSpace(c.Query("type"))
	value := strings.TrimSpace(c.Query("value"))
	if typeName == "" || value == "" {
		h.fail(c, common.ErrInvalidRequest)
		return
	}
	removed, err := s.RemoveTag(typeName, value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, TagResponse{Removed: &removed, Snapshot: s.Snapshot()})
}

// session 取得路徑參數指定的工作階段；不存在時已寫入錯誤回應
func (h *Handler) session(c *gin.Context) (*chat.Session, bool) {
	s, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

// fail 將錯誤轉為 API 錯誤響應
func (h *Handler) fail(c *gin.Context, err error) {
	status, resp := common.ToResponse(err, h.debug)
	if status >= http.StatusInternalServerError {
		common.LogError("處理請求失敗",
			zap.String("request_id", requestid.Get(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
