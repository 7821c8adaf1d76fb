// Package intent 將使用者訊息分類為固定的對話類型。
//
// 規則依宣告順序檢查，第一個命中者勝出：
//  1. off_topic
//  2. recipe_modification
//  3. remix_transform
//  4. recipe_request
//  5. 其餘為 general_chat
package intent

import (
	"sync"

	"recipe-chat/internal/core/lexicon"
)

// ConversationType 對話類型
type ConversationType string

const (
	RecipeRequest      ConversationType = "recipe_request"
	RecipeModification ConversationType = "recipe_modification"
	RemixTransform     ConversationType = "remix_transform"
	GeneralChat        ConversationType = "general_chat"
	OffTopic           ConversationType = "off_topic"
)

// Result 分類結果與命中的關鍵字
type Result struct {
	Type    ConversationType `json:"type"`
	Rule    string           `json:"rule"`
	Keyword string           `json:"keyword,omitempty"`
}

// rule 一條分類規則
type rule struct {
	name  string
	kind  ConversationType
	match func(lex *lexicon.Lexicon, msg string) (string, bool)
}

// 分類規則，順序即優先順序
var rules = []rule{
	{
		name: "off_topic",
		kind: OffTopic,
		match: func(lex *lexicon.Lexicon, msg string) (string, bool) {
			return lexicon.ContainsAny(msg, lex.OffTopic)
		},
	},
	{
		name:  "modification",
		kind:  RecipeModification,
		match: modificationKeyword,
	},
	{
		name: "remix",
		kind: RemixTransform,
		match: func(lex *lexicon.Lexicon, msg string) (string, bool) {
			return lexicon.ContainsAny(msg, lex.RemixPhrases)
		},
	},
	{
		name: "recipe_request",
		kind: RecipeRequest,
		match: func(lex *lexicon.Lexicon, msg string) (string, bool) {
			return lexicon.ContainsAny(msg, lex.RecipeRequests)
		},
	},
}

// Classifier 規則式意圖分類器
type Classifier struct {
	lex *lexicon.Lexicon
}

// NewClassifier 創建分類器；lex 為 nil 時使用內建關鍵字表
func NewClassifier(lex *lexicon.Lexicon) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Classifier{lex: lex}
}

// Classify 回傳訊息的對話類型
func (c *Classifier) Classify(msg string) ConversationType {
	return c.Explain(msg).Type
}

// Explain 回傳對話類型以及命中的規則
func (c *Classifier) Explain(msg string) Result {
	for _, r := range rules {
		if kw, ok := r.match(c.lex, msg); ok {
			return Result{Type: r.kind, Rule: r.name, Keyword: kw}
		}
	}
	return Result{Type: GeneralChat, Rule: "default"}
}

// RuleNames 規則的檢查順序
func RuleNames() []string {
	names := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		names = append(names, r.name)
	}
	return append(names, "default")
}

// IsModificationRequest 訊息是否表達修改目前菜色的意圖；分類器與回應解析器共用
func IsModificationRequest(lex *lexicon.Lexicon, msg string) bool {
	_, ok := modificationKeyword(lex, msg)
	return ok
}

func modificationKeyword(lex *lexicon.Lexicon, msg string) (string, bool) {
	return lexicon.ContainsAny(msg, lex.ModificationPhrases)
}

var (
	defaultOnce       sync.Once
	defaultClassifier *Classifier
)

// Classify 使用內建關鍵字表分類
func Classify(msg string) ConversationType {
	defaultOnce.Do(func() {
		defaultClassifier = NewClassifier(nil)
	})
	return defaultClassifier.Classify(msg)
}
