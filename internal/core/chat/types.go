// Package chat 對話工作階段：確認狀態機、輸入閘控與打字指示。
//
// 每個 Session 同一時間最多只有一個待確認建議；等待旗標任一為真時停用輸入。
// 後端呼叫期間不持有鎖，回應回來時若工作階段已被重設（blur、start fresh）則丟棄。
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-chat/internal/core/backend"
	"recipe-chat/internal/core/conversation"
	"recipe-chat/internal/core/intent"
	"recipe-chat/internal/core/lexicon"
	"recipe-chat/internal/core/suggestion"
	"recipe-chat/internal/pkg/common"
)

// Backend 菜色後端；*backend.Client 實作此介面
type Backend interface {
	ChatDishSuggestion(ctx context.Context, req backend.DishSuggestionRequest) (*common.DishSuggestionResult, error)
	GenerateDish(ctx context.Context, req backend.GenerateDishRequest) (*common.Dish, error)
	ModifyRecipe(ctx context.Context, dish *common.Dish, modification string) (*common.ModifyResult, error)
	RecipeInfo(ctx context.Context, dishName string) (*common.Recipe, error)
	GenerateImage(ctx context.Context, dish *common.Dish) (string, error)
	Chat(ctx context.Context, messages []common.ChatTurn, currentDish *common.Dish) (string, error)
}

// Dispatcher 背景工作派送；*queue.Manager 實作此介面
type Dispatcher interface {
	Submit(name string, fn func(ctx context.Context)) error
}

// inlineDispatcher 在呼叫端直接執行
type inlineDispatcher struct{}

func (inlineDispatcher) Submit(_ string, fn func(ctx context.Context)) error {
	fn(context.Background())
	return nil
}

// Deps 工作階段共用的協作者
type Deps struct {
	Backend          Backend
	Dispatcher       Dispatcher
	Lexicon          *lexicon.Lexicon
	Classifier       *intent.Classifier
	Parser           *suggestion.Parser
	Clock            common.Clock
	HistoryLimit     int
	TypingMinVisible time.Duration
}

// DefaultTypingMinVisible 打字指示最短顯示時間
const DefaultTypingMinVisible = 600 * time.Millisecond

func (d Deps) withDefaults() Deps {
	if d.Lexicon == nil {
		d.Lexicon = lexicon.Default()
	}
	if d.Classifier == nil {
		d.Classifier = intent.NewClassifier(d.Lexicon)
	}
	if d.Parser == nil {
		d.Parser = suggestion.NewParser(d.Lexicon)
	}
	if d.Dispatcher == nil {
		d.Dispatcher = inlineDispatcher{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.HistoryLimit <= 0 {
		d.HistoryLimit = conversation.DefaultHistoryLimit
	}
	if d.TypingMinVisible <= 0 {
		d.TypingMinVisible = DefaultTypingMinVisible
	}
	return d
}

// Role 訊息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 對話訊息
type Message struct {
	ID         string           `json:"id"`
	Role       Role             `json:"role"`
	Text       string           `json:"text"`
	Suggestion *suggestion.View `json:"suggestion,omitempty"`
	IsError    bool             `json:"isError,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Flags 非同步等待旗標；任一為真時停用輸入
type Flags struct {
	WaitingForResponse     bool `json:"waitingForResponse"`
	ProcessingModification bool `json:"processingModification"`
	GeneratingDish         bool `json:"generatingDish"`
	GeneratingImage        bool `json:"generatingImage"`
	ConfirmingDish         bool `json:"confirmingDish"`
	LoadingDish            bool `json:"loadingDish"`
}

// Any 是否有任何等待中的工作
func (f Flags) Any() bool {
	return f.WaitingForResponse || f.ProcessingModification || f.GeneratingDish ||
		f.GeneratingImage || f.ConfirmingDish || f.LoadingDish
}

// 導覽提示
const (
	NavigateDish = "dish"
	NavigateChat = "chat"
)

// Snapshot 工作階段的唯讀快照
type Snapshot struct {
	ID                string                `json:"id"`
	CurrentDish       *common.Dish          `json:"currentDish,omitempty"`
	PendingDish       *common.Dish          `json:"pendingDish,omitempty"`
	PendingSuggestion *suggestion.View      `json:"pendingSuggestion,omitempty"`
	Messages          []Message             `json:"messages"`
	Preferences       common.Preferences    `json:"preferences"`
	Context           conversation.Snapshot `json:"context"`
	Flags             Flags                 `json:"flags"`
	InputEnabled      bool                  `json:"inputEnabled"`
	TypingVisible     bool                  `json:"typingVisible"`
	ChatError         string                `json:"chatError,omitempty"`
	ImageError        string                `json:"imageError,omitempty"`
	NavigateTo        string                `json:"navigateTo,omitempty"`
}

// 固定的助理訊息
const (
	msgOffTopic           = "I'm your kitchen companion, so let's keep it about food! Tell me what you're craving or what's in your fridge and I'll suggest a dish."
	msgChatFailed         = "Sorry, something went wrong. Please try again."
	msgIncompleteDish     = "I couldn't generate a complete dish suggestion. Please try again."
	msgModifyFailed       = "Sorry, I couldn't apply that modification. Please try again."
	msgGenerateFailed     = "Sorry, I couldn't create that dish. Please try again."
	msgRecipeFailed       = "Sorry, I couldn't load the recipe. Please try again."
	msgRejectModification = "No problem, I'll keep that in mind for future suggestions."
	msgReject             = "No problem! Let me know if you'd like something else."
	msgTransform          = "I can transform your %s based on your request. Would you like me to apply this change?"
	msgDishReady          = "%q is ready! Opening it in the app."
	msgViewRecipe         = "Would you like to view the recipe?"
)

// dishSuggestionText 後端建議完整菜色時的確認訊息
func dishSuggestionText(d *common.CompleteDish) string {
	parts := []string{fmt.Sprintf("How about trying %q?", d.Title)}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		parts = append(parts, desc)
	}
	parts = append(parts, "Would you like to load this dish into the app?")
	return strings.Join(parts, " ")
}

// loadText 修改完成後詢問是否載入
func loadText(title string) string {
	return fmt.Sprintf("Load %q into the app?", title)
}

// joinContext 以句點串接非空白的上下文片段
func joinContext(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ". ")
}
