package conversation

import (
	"fmt"
	"strings"
	"time"

	"recipe-chat/internal/core/lexicon"
	"recipe-chat/internal/pkg/common"
)

// TagType 偏好標籤類型
type TagType string

const (
	TagIngredient  TagType = "ingredient"
	TagStyle       TagType = "style"
	TagDishType    TagType = "dishType"
	TagClassicDish TagType = "classicDish"
	TagDietary     TagType = "dietary"
	TagUserWord    TagType = "userWord"
)

// ChatBucket UI 使用的顯示分組名稱，儲存時對應 userWord
const ChatBucket = "chat"

// summaryOrder 摘要中的類別順序（下游 prompt 依賴此順序）
var summaryOrder = []struct {
	Type  TagType
	Label string
}{
	{TagIngredient, "Preferred ingredients"},
	{TagStyle, "Preferred styles"},
	{TagDishType, "Preferred dish types"},
	{TagClassicDish, "Classic dishes of interest"},
	{TagDietary, "Dietary preferences"},
}

// ParseTagType 解析類型名稱；UI 的 "chat" 分組對應 userWord
func ParseTagType(name string) (TagType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ingredient":
		return TagIngredient, nil
	case "style":
		return TagStyle, nil
	case "dishtype":
		return TagDishType, nil
	case "classicdish":
		return TagClassicDish, nil
	case "dietary":
		return TagDietary, nil
	case "userword", ChatBucket:
		return TagUserWord, nil
	}
	return "", common.ErrUnknownTagType.Wrap(fmt.Errorf("tag type %q", name))
}

// DisplayBucket 標籤在 UI 中的分組
func DisplayBucket(t TagType) string {
	if t == TagUserWord {
		return ChatBucket
	}
	return string(t)
}

// PreferenceTag 從對話或偏好設定取得的單一標籤
type PreferenceTag struct {
	Type      TagType   `json:"type"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Label 顯示文字：userWord 首字母大寫，其餘原樣
func (t PreferenceTag) Label() string {
	if t.Type == TagUserWord {
		return lexicon.Capitalize(t.Value)
	}
	return t.Value
}

// Candidate 待加入的標籤
type Candidate struct {
	Type  TagType
	Value string
}

// DishRef 菜色快照（僅保存當時的標題與描述）
type DishRef struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// RefOf 建立菜色快照
func RefOf(d *common.Dish) DishRef {
	if d == nil {
		return DishRef{}
	}
	return DishRef{ID: d.ID, Title: d.Title, Description: d.Description}
}

// ModificationRecord 使用者拒絕套用但需記住的修改
type ModificationRecord struct {
	OriginalDish DishRef   `json:"originalDish"`
	Modification string    `json:"modification"`
	Timestamp    time.Time `json:"timestamp"`
}

// DishHistoryEntry 曾載入的菜色
type DishHistoryEntry struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
