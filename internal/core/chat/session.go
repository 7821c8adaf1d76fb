package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"recipe-chat/internal/core/backend"
	"recipe-chat/internal/core/conversation"
	"recipe-chat/internal/core/intent"
	"recipe-chat/internal/core/suggestion"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Session 單一使用者的對話工作階段
type Session struct {
	id        string
	deps      Deps
	createdAt time.Time

	mu          sync.Mutex
	store       *conversation.Store
	prefs       common.Preferences
	currentDish *common.Dish
	pendingDish *common.Dish
	pending     suggestion.Suggestion
	messages    []Message
	flags       Flags
	typing      typingIndicator
	generation  uint64
	chatError   string
	imageError  string
	navigateTo  string
	lastActive  time.Time
}

// NewSession 創建工作階段；id 為空時自動產生
func NewSession(id string, deps Deps) *Session {
	deps = deps.withDefaults()
	if id == "" {
		id = common.GenerateUUID()
	}
	now := deps.Clock()
	return &Session{
		id:         id,
		deps:       deps,
		createdAt:  now,
		lastActive: now,
		store: conversation.NewStore(
			conversation.WithClock(deps.Clock),
			conversation.WithHistoryLimit(deps.HistoryLimit),
		),
		typing: typingIndicator{minVisible: deps.TypingMinVisible},
	}
}

// ID 工作階段 ID
func (s *Session) ID() string {
	return s.id
}

// Context 對話上下文
func (s *Session) Context() *conversation.Store {
	return s.store
}

// turn 一次後端往返所需的輸入快照
type turn struct {
	generation  uint64
	text        string
	dish        *common.Dish
	pendingDish *common.Dish
	current     *common.Dish
	base        common.Preferences
	prefs       common.Preferences
	summary     string
	transcript  []common.ChatTurn
}

type reply struct {
	text    string
	isError bool
}

// outcome 後端往返的結果，在持有鎖時一次套用
type outcome struct {
	replies     []reply
	pending     suggestion.Suggestion
	pendingDish *common.Dish
	load        *common.Dish
	replace     *common.Dish
	tagsFrom    string
	prefs       *common.Preferences
	chatError   string
	navigate    string
}

func failure(msg string, err error) outcome {
	out := outcome{replies: []reply{{text: msg, isError: true}}}
	if err != nil {
		out.chatError = err.Error()
	}
	return out
}

// HandleSend 處理使用者送出的訊息；等待中或有待確認建議時回傳 ErrSessionBusy 且不改變狀態
func (s *Session) HandleSend(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return common.ErrInvalidRequest.Wrap(errors.New("empty message"))
	}

	s.mu.Lock()
	if err := s.gateLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.postLocked(RoleUser, text, nil, false)
	s.navigateTo = ""
	s.chatError = ""
	s.busyLocked(func(f *Flags) { f.WaitingForResponse = true })
	t := s.turnLocked(text)
	s.mu.Unlock()

	result := s.deps.Classifier.Explain(text)
	common.LogInfo("使用者訊息分類",
		zap.String("session_id", s.id),
		zap.String("conversation_type", string(result.Type)),
		zap.String("rule", result.Rule),
		zap.String("keyword", result.Keyword),
	)

	out := s.respond(ctx, t, result.Type)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(t.generation) {
		return nil
	}
	s.busyLocked(func(f *Flags) { f.WaitingForResponse = false })
	s.applyLocked(out)
	return nil
}

// respond 依對話類型決定回覆與建議
func (s *Session) respond(ctx context.Context, t turn, kind intent.ConversationType) outcome {
	switch kind {
	case intent.OffTopic:
		return outcome{replies: []reply{{text: msgOffTopic}}}
	case intent.RecipeModification, intent.RemixTransform:
		if t.dish != nil {
			return s.proposeModification(t)
		}
		return s.suggestDish(ctx, t)
	case intent.RecipeRequest:
		return s.suggestDish(ctx, t)
	default:
		return s.chat(ctx, t)
	}
}

// proposeModification 已有菜色時，修改或轉換請求直接交給解析器
func (s *Session) proposeModification(t turn) outcome {
	sugg := s.deps.Parser.Parse(t.text, t.text, t.dish)
	if sugg == nil {
		sugg = &suggestion.ModificationSuggestion{
			Text:         fmt.Sprintf(msgTransform, t.dish.Title),
			Category:     suggestion.KindIngredient,
			Modification: t.text,
		}
	}
	return outcome{pending: sugg}
}

// suggestDish 請後端建議一道完整菜色，成為待確認的菜色
func (s *Session) suggestDish(ctx context.Context, t turn) outcome {
	res, err := s.deps.Backend.ChatDishSuggestion(ctx, backend.DishSuggestionRequest{
		UserMessage:         t.text,
		Preferences:         t.prefs,
		ConversationContext: t.summary,
	})
	if err != nil {
		common.LogError("菜色建議請求失敗", zap.String("session_id", s.id), zap.Error(err))
		return failure(msgChatFailed, err)
	}
	if res.CompleteDish == nil || strings.TrimSpace(res.CompleteDish.Title) == "" {
		common.LogWarn("後端未回傳完整菜色",
			zap.String("session_id", s.id),
			zap.String("chat_summary", common.Truncate(res.ChatSummary, 200)),
		)
		return outcome{replies: []reply{{text: msgIncompleteDish, isError: true}}}
	}

	return outcome{
		pending: &suggestion.DishSuggestion{
			Text:                dishSuggestionText(res.CompleteDish),
			CompleteDish:        res.CompleteDish,
			DishName:            res.CompleteDish.Title,
			OriginalUserMessage: t.text,
		},
		pendingDish: res.CompleteDish.ToDish(),
	}
}

// chat 一般對話；回覆無法解析出建議時改走菜色建議
func (s *Session) chat(ctx context.Context, t turn) outcome {
	text, err := s.deps.Backend.Chat(ctx, t.transcript, t.current)
	if err != nil {
		common.LogError("對話請求失敗", zap.String("session_id", s.id), zap.Error(err))
		return failure(msgChatFailed, err)
	}

	if sugg := s.deps.Parser.Parse(text, t.text, t.dish); sugg != nil {
		return outcome{replies: []reply{{text: text}}, pending: sugg}
	}

	out := s.suggestDish(ctx, t)
	out.replies = append([]reply{{text: text}}, out.replies...)
	return out
}

// Reject 拒絕待確認建議；被拒絕的食材修改會記錄到對話上下文
func (s *Session) Reject() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return common.ErrNoPendingSuggestion
	}
	if s.flags.Any() {
		return common.ErrSessionBusy
	}

	if m, ok := s.pending.(*suggestion.ModificationSuggestion); ok &&
		m.Kind() == suggestion.KindIngredient && strings.TrimSpace(m.Modification) != "" {
		dish := suggestion.DishContext(s.currentDish, s.pendingDish)
		s.store.RecordModification(conversation.RefOf(dish), m.Modification)
		s.postLocked(RoleAssistant, msgRejectModification, nil, false)
	} else {
		s.postLocked(RoleAssistant, msgReject, nil, false)
	}

	common.LogInfo("建議已拒絕",
		zap.String("session_id", s.id),
		zap.String("suggestion_type", string(s.pending.Kind())),
	)
	s.pending = nil
	s.pendingDish = nil
	return nil
}

// ViewRecipe 查看食譜；待確認建議為「查看食譜」時等同確認，否則載入目前菜色的食譜
func (s *Session) ViewRecipe(ctx context.Context) error {
	s.mu.Lock()
	if m, ok := s.pending.(*suggestion.ModificationSuggestion); ok && m.ShowViewRecipe {
		s.mu.Unlock()
		return s.Confirm(ctx)
	}
	if s.currentDish == nil {
		s.mu.Unlock()
		return common.ErrNotFound.Wrap(errors.New("no dish loaded"))
	}
	if !s.currentDish.Recipe.IsEmpty() {
		s.navigateTo = NavigateDish
		s.mu.Unlock()
		return nil
	}
	if s.flags.Any() {
		s.mu.Unlock()
		return common.ErrSessionBusy
	}
	s.busyLocked(func(f *Flags) { f.LoadingDish = true })
	gen := s.generation
	dishID, title := s.currentDish.ID, s.currentDish.Title
	s.mu.Unlock()

	recipe, err := s.deps.Backend.RecipeInfo(ctx, title)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(gen) {
		return nil
	}
	s.busyLocked(func(f *Flags) { f.LoadingDish = false })
	if err != nil {
		common.LogError("食譜載入失敗", zap.String("session_id", s.id), zap.String("dish_id", dishID), zap.Error(err))
		s.postLocked(RoleAssistant, msgRecipeFailed, nil, true)
		return nil
	}
	if s.currentDish != nil && s.currentDish.ID == dishID {
		s.currentDish.Recipe = *recipe
		s.navigateTo = NavigateDish
	}
	return nil
}

// UpdatePreferences 以偏好設定畫面的選項取代結構化偏好，並加入對應標籤
func (s *Session) UpdatePreferences(p common.Preferences) {
	structured := common.Preferences{}.Merge(p)

	var candidates []conversation.Candidate
	add := func(t conversation.TagType, values []string) {
		for _, v := range values {
			candidates = append(candidates, conversation.Candidate{Type: t, Value: v})
		}
	}
	add(conversation.TagDietary, structured.DietaryRestrictions)
	add(conversation.TagStyle, structured.Cuisines)
	add(conversation.TagStyle, structured.PlateStyles)
	add(conversation.TagClassicDish, structured.ClassicDishes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = structured
	s.store.AddBatch(candidates)
}

// AddTag 手動加入標籤；已存在時回傳 false
func (s *Session) AddTag(typeName, value string) (bool, error) {
	t, err := conversation.ParseTagType(typeName)
	if err != nil {
		return false, err
	}
	_, added := s.store.Add(t, value)
	return added, nil
}

// RemoveTag 移除標籤；typeName 可使用 "chat" 分組名稱
func (s *Session) RemoveTag(typeName, value string) (int, error) {
	return s.store.Remove(typeName, value)
}

// StartFresh 清空對話、菜色與上下文；結構化偏好保留
func (s *Session) StartFresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.store.Clear()
	s.currentDish = nil
	s.pendingDish = nil
	s.pending = nil
	s.messages = nil
	s.chatError = ""
	s.imageError = ""
	s.navigateTo = ""
	common.LogInfo("對話已重新開始", zap.String("session_id", s.id))
}

// Blur 離開畫面：強制重設所有等待旗標，之後回來的回應會被丟棄
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	common.LogDebug("工作階段已離開畫面", zap.String("session_id", s.id))
}

// TypingVisible 打字指示是否顯示
func (s *Session) TypingVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing.visible(s.flags.Any(), s.deps.Clock())
}

// InputEnabled 是否可以送出新訊息
func (s *Session) InputEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateLocked() == nil
}

// Snapshot 取得目前狀態
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	return Snapshot{
		ID:                s.id,
		CurrentDish:       s.currentDish.Clone(),
		PendingDish:       s.pendingDish.Clone(),
		PendingSuggestion: suggestion.Describe(s.pending),
		Messages:          messages,
		Preferences:       s.prefs.Clone(),
		Context:           s.store.Snapshot(),
		Flags:             s.flags,
		InputEnabled:      s.gateLocked() == nil,
		TypingVisible:     s.typing.visible(s.flags.Any(), s.deps.Clock()),
		ChatError:         s.chatError,
		ImageError:        s.imageError,
		NavigateTo:        s.navigateTo,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.deps.Clock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) gateLocked() error {
	if s.flags.Any() || s.pending != nil {
		return common.ErrSessionBusy
	}
	return nil
}

// busyLocked 更新旗標；從閒置轉為等待時開始計算打字指示的顯示時間
func (s *Session) busyLocked(update func(f *Flags)) {
	wasBusy := s.flags.Any()
	update(&s.flags)
	if !wasBusy && s.flags.Any() {
		s.typing.show(s.deps.Clock())
	}
}

// setFlags 後端呼叫期間更新旗標；工作階段已重設時不動作
func (s *Session) setFlags(generation uint64, update func(f *Flags)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == generation {
		s.busyLocked(update)
	}
}

// currentLocked 回應是否仍屬於目前的工作階段世代
func (s *Session) currentLocked(generation uint64) bool {
	if generation == s.generation {
		return true
	}
	common.LogWarn("工作階段已重設，丟棄過期回應",
		zap.String("session_id", s.id),
		zap.Uint64("generation", generation),
		zap.Uint64("current_generation", s.generation),
	)
	return false
}

func (s *Session) resetLocked() {
	s.generation++
	s.flags = Flags{}
	s.typing.reset()
}

func (s *Session) postLocked(role Role, text string, view *suggestion.View, isError bool) {
	s.messages = append(s.messages, Message{
		ID:         common.GenerateUUID(),
		Role:       role,
		Text:       text,
		Suggestion: view,
		IsError:    isError,
		Timestamp:  s.deps.Clock(),
	})
}

func (s *Session) turnLocked(text string) turn {
	transcript := make([]common.ChatTurn, 0, len(s.messages))
	for _, m := range s.messages {
		transcript = append(transcript, common.ChatTurn{Role: string(m.Role), Content: m.Text})
	}
	return turn{
		generation:  s.generation,
		text:        text,
		dish:        suggestion.DishContext(s.currentDish, s.pendingDish).Clone(),
		pendingDish: s.pendingDish.Clone(),
		current:     s.currentDish.Clone(),
		base:        s.prefs.Clone(),
		prefs:       s.store.Wanted(s.prefs),
		summary:     s.store.Summarize(),
		transcript:  transcript,
	}
}

// applyLocked 套用後端往返結果；回傳新載入或更新的菜色（需要產生圖片）
func (s *Session) applyLocked(out outcome) *common.Dish {
	for _, r := range out.replies {
		s.postLocked(RoleAssistant, r.text, nil, r.isError)
	}
	if out.chatError != "" {
		s.chatError = out.chatError
	}
	if out.prefs != nil {
		s.prefs = *out.prefs
	}
	if out.pendingDish != nil {
		s.pendingDish = out.pendingDish
	}

	var loaded *common.Dish
	if out.load != nil {
		loaded = s.loadDishLocked(out.load, out.tagsFrom)
	}
	if out.replace != nil {
		loaded = s.replaceDishLocked(out.replace)
	}
	if out.navigate != "" {
		s.navigateTo = out.navigate
	}
	if out.pending != nil {
		s.pending = out.pending
		s.postLocked(RoleAssistant, out.pending.Message(), suggestion.Describe(out.pending), false)
		common.LogInfo("新的待確認建議",
			zap.String("session_id", s.id),
			zap.String("suggestion_type", string(out.pending.Kind())),
		)
	}
	return loaded
}

// loadDishLocked 將菜色設為目前菜色並切換到菜色頁；只有名單內的食材會成為標籤
func (s *Session) loadDishLocked(d *common.Dish, tagsFrom string) *common.Dish {
	dish := s.setDishLocked(d)
	if strings.TrimSpace(tagsFrom) != "" {
		s.store.AddBatch(conversation.FoodItemTags(s.deps.Lexicon, tagsFrom))
	}
	s.navigateTo = NavigateDish
	s.postLocked(RoleAssistant, fmt.Sprintf(msgDishReady, dish.Title), nil, false)

	common.LogInfo("菜色已載入",
		zap.String("session_id", s.id),
		zap.String("dish_id", dish.ID),
		zap.String("title", dish.Title),
	)
	return dish.Clone()
}

// replaceDishLocked 原地更新目前菜色，不切換頁面
func (s *Session) replaceDishLocked(d *common.Dish) *common.Dish {
	dish := s.setDishLocked(d)
	common.LogInfo("菜色已更新",
		zap.String("session_id", s.id),
		zap.String("dish_id", dish.ID),
		zap.String("title", dish.Title),
	)
	return dish.Clone()
}

// setDishLocked 新 ID、清空圖片、記錄歷史，並標記圖片產生中
func (s *Session) setDishLocked(d *common.Dish) *common.Dish {
	now := s.deps.Clock()
	dish := d.Clone()
	dish.ID = common.GenerateDishID(now)
	dish.Timestamp = now
	dish.Image = ""

	s.currentDish = dish
	s.pendingDish = nil
	s.imageError = ""
	s.store.TrackDish(dish)
	s.busyLocked(func(f *Flags) { f.GeneratingImage = true })
	return dish
}

// generateImage 派送圖片產生工作；結果只套用在同一世代、同一道菜上
func (s *Session) generateImage(dish *common.Dish, generation uint64) {
	apply := func(url string, err error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if generation != s.generation || s.currentDish == nil || s.currentDish.ID != dish.ID {
			common.LogDebug("丟棄過期的圖片結果", zap.String("session_id", s.id), zap.String("dish_id", dish.ID))
			return
		}
		s.busyLocked(func(f *Flags) { f.GeneratingImage = false })
		if err != nil {
			s.imageError = err.Error()
			common.LogError("圖片產生失敗", zap.String("session_id", s.id), zap.String("dish_id", dish.ID), zap.Error(err))
			return
		}
		s.currentDish.Image = url
	}

	err := s.deps.Dispatcher.Submit("generate-image", func(ctx context.Context) {
		apply(s.deps.Backend.GenerateImage(ctx, dish))
	})
	if err != nil {
		apply("", err)
	}
}
