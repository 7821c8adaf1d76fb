package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultHistoryLimit 菜色歷史保留的筆數
const DefaultHistoryLimit = 5

// Store 對話上下文：偏好標籤、修改紀錄、菜色歷史
type Store struct {
	mu            sync.RWMutex
	preferences   []PreferenceTag
	modifications []ModificationRecord
	dishHistory   []DishHistoryEntry
	historyLimit  int
	now           common.Clock
}

// StoreOption Store 設定選項
type StoreOption func(*Store)

// WithClock 指定時間來源
func WithClock(c common.Clock) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.now = c
		}
	}
}

// WithHistoryLimit 指定菜色歷史上限
func WithHistoryLimit(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// NewStore 創建空的對話上下文
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add 正規化後加入標籤；重複或被排除的值不會加入
func (s *Store) Add(t TagType, raw string) (PreferenceTag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(t, raw, nil)
}

// AddBatch 加入一次擷取的所有候選標籤；同一批次內以正規化值去重
func (s *Store) AddBatch(candidates []Candidate) []PreferenceTag {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(candidates))
	var added []PreferenceTag
	for _, c := range candidates {
		if tag, ok := s.addLocked(c.Type, c.Value, seen); ok {
			added = append(added, tag)
		}
	}
	if len(added) > 0 {
		common.LogDebug("對話上下文新增標籤", zap.Int("count", len(added)))
	}
	return added
}

func (s *Store) addLocked(t TagType, raw string, seen map[string]bool) (PreferenceTag, bool) {
	v := Normalize(raw)
	if v == "" || IsExcluded(v) {
		return PreferenceTag{}, false
	}
	if seen != nil {
		if seen[v] {
			return PreferenceTag{}, false
		}
		seen[v] = true
	}
	if s.hasLocked(t, v) {
		return PreferenceTag{}, false
	}
	tag := PreferenceTag{Type: t, Value: v, Timestamp: s.now()}
	s.preferences = append(s.preferences, tag)
	return tag, true
}

// Has 是否已有相同類型與值的標籤
func (s *Store) Has(t TagType, value string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasLocked(t, Normalize(value))
}

func (s *Store) hasLocked(t TagType, normalized string) bool {
	for _, p := range s.preferences {
		if p.Type == t && p.Value == normalized {
			return true
		}
	}
	return false
}

// Remove 移除所有符合的標籤；typeName 可使用 UI 的 "chat" 分組名稱
func (s *Store) Remove(typeName, value string) (int, error) {
	t, err := ParseTagType(typeName)
	if err != nil {
		return 0, err
	}
	v := Normalize(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.preferences[:0]
	removed := 0
	for _, p := range s.preferences {
		if p.Type == t && p.Value == v {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.preferences = kept
	return removed, nil
}

// RecordModification 記錄被拒絕但需保留的修改意圖
func (s *Store) RecordModification(dish DishRef, modification string) {
	modification = strings.TrimSpace(modification)
	if modification == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modifications = append(s.modifications, ModificationRecord{
		OriginalDish: dish,
		Modification: modification,
		Timestamp:    s.now(),
	})
}

// TrackDish 將載入的菜色放到歷史最前面，超過上限的舊紀錄捨棄
func (s *Store) TrackDish(d *common.Dish) {
	if d == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := DishHistoryEntry{Title: d.Title, Description: d.Description, Timestamp: s.now()}
	history := make([]DishHistoryEntry, 0, s.historyLimit)
	history = append(history, entry)
	history = append(history, s.dishHistory...)
	if len(history) > s.historyLimit {
		history = history[:s.historyLimit]
	}
	s.dishHistory = history
}

// Summarize 產生給後端的上下文摘要；各段順序固定
func (s *Store) Summarize() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []string

	if len(s.modifications) > 0 {
		mods := make([]string, len(s.modifications))
		for i, m := range s.modifications {
			mods[i] = fmt.Sprintf("%q to %s", m.Modification, m.OriginalDish.Title)
		}
		parts = append(parts, "Previous modifications: "+strings.Join(mods, ", "))
	}

	for _, section := range summaryOrder {
		if values := s.valuesLocked(section.Type); len(values) > 0 {
			parts = append(parts, section.Label+": "+strings.Join(values, ", "))
		}
	}

	if len(s.dishHistory) > 0 {
		titles := make([]string, len(s.dishHistory))
		for i, h := range s.dishHistory {
			titles[i] = h.Title
		}
		parts = append(parts, "Recently viewed dishes: "+strings.Join(titles, ", "))
	}

	return strings.Join(parts, ". ")
}

// Wanted 以對話上下文填入 wanted* 欄位，結構化欄位維持不變
func (s *Store) Wanted(base common.Preferences) common.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := base.Clone()
	out.WantedIngredients = s.valuesLocked(TagIngredient)
	out.WantedStyles = s.valuesLocked(TagStyle)
	out.WantedDishTypes = s.valuesLocked(TagDishType)
	out.WantedClassicDishes = s.valuesLocked(TagClassicDish)
	out.WantedDietary = s.valuesLocked(TagDietary)
	return out
}

func (s *Store) valuesLocked(t TagType) []string {
	var values []string
	for _, p := range s.preferences {
		if p.Type == t {
			values = append(values, p.Value)
		}
	}
	return values
}

// Clear 清空全部上下文（Start Fresh）
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences = nil
	s.modifications = nil
	s.dishHistory = nil
}

// Preferences 目前的標籤副本
func (s *Store) Preferences() []PreferenceTag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]PreferenceTag(nil), s.preferences...)
}

// Modifications 修改紀錄副本
func (s *Store) Modifications() []ModificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ModificationRecord(nil), s.modifications...)
}

// DishHistory 菜色歷史副本，最新在前
func (s *Store) DishHistory() []DishHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DishHistoryEntry(nil), s.dishHistory...)
}

// TagView 提供給 UI 的標籤
type TagView struct {
	Type   TagType `json:"type"`
	Bucket string  `json:"bucket"`
	Value  string  `json:"value"`
	Label  string  `json:"label"`
}

// Snapshot 對話上下文快照
type Snapshot struct {
	Tags          []TagView            `json:"tags"`
	Modifications []ModificationRecord `json:"modifications"`
	DishHistory   []DishHistoryEntry   `json:"dishHistory"`
	Summary       string               `json:"summary,omitempty"`
}

// Snapshot 取得目前的上下文快照
func (s *Store) Snapshot() Snapshot {
	tags := s.Preferences()
	views := make([]TagView, len(tags))
	for i, t := range tags {
		views[i] = TagView{Type: t.Type, Bucket: DisplayBucket(t.Type), Value: t.Value, Label: t.Label()}
	}
	return Snapshot{
		Tags:          views,
		Modifications: s.Modifications(),
		DishHistory:   s.DishHistory(),
		Summary:       s.Summarize(),
	}
}
