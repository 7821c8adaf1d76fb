// Package suggestion 由 AI 回覆、使用者訊息與目前菜色推導出單一待確認建議。
//
// 解析規則是有序的 (name, match, build) 表，第一個命中的規則產生建議；
// 全部未命中時回傳 nil，由呼叫端改走菜色建議請求。
package suggestion

import (
	"fmt"
	"regexp"
	"strings"

	"recipe-chat/internal/core/conversation"
	"recipe-chat/internal/core/intent"
	"recipe-chat/internal/core/lexicon"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Input 解析輸入
type Input struct {
	AIMessage   string
	UserMessage string
	Dish        *common.Dish
}

func (in Input) hasDish() bool {
	return in.Dish != nil
}

func (in Input) title() string {
	if in.Dish == nil {
		return "dish"
	}
	return in.Dish.Title
}

// rule 一條解析規則；match 回傳建構時需要的擷取值
type rule struct {
	name  string
	match func(p *Parser, in Input) (string, bool)
	build func(p *Parser, in Input, value string) Suggestion
}

// 「建議某道菜」句型，擷取菜名
var suggestedDishPattern = regexp.MustCompile(
	`(?i)(?:how about|i suggest|would you like to see)\s+(?:(?:trying|making|cooking|a|an|the|some|our)\s+)*["“]?([^"”?!.,:;]+)`)

// Parser 回應解析器
type Parser struct {
	lex   *lexicon.Lexicon
	rules []rule
}

// NewParser 創建解析器；lex 為 nil 時使用內建關鍵字表
func NewParser(lex *lexicon.Lexicon) *Parser {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Parser{lex: lex, rules: defaultRules()}
}

// Parse 回傳第一個命中規則產生的建議，未命中時為 nil
func (p *Parser) Parse(aiMessage, userMessage string, dish *common.Dish) Suggestion {
	s, _ := p.Match(Input{AIMessage: aiMessage, UserMessage: userMessage, Dish: dish})
	return s
}

// Match 與 Parse 相同，另外回傳命中的規則名稱
func (p *Parser) Match(in Input) (Suggestion, string) {
	for _, r := range p.rules {
		value, ok := r.match(p, in)
		if !ok {
			continue
		}
		s := r.build(p, in, value)
		common.LogDebug("回應解析命中規則",
			zap.String("rule", r.name),
			zap.String("suggestion_type", string(s.Kind())),
		)
		return s, r.name
	}
	return nil, ""
}

// RuleNames 規則的檢查順序
func (p *Parser) RuleNames() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.name
	}
	return names
}

// isModification 使用者訊息是否為修改請求（與意圖分類器共用同一組片語）
func (p *Parser) isModification(msg string) bool {
	return intent.IsModificationRequest(p.lex, msg)
}

// firstFoodItem 先找使用者訊息，再找 AI 訊息中的食材
func (p *Parser) firstFoodItem(in Input) (string, bool) {
	for _, text := range []string{in.UserMessage, in.AIMessage} {
		if items := conversation.ExtractFoodItems(p.lex, text); len(items) > 0 {
			return items[0], true
		}
	}
	return "", false
}

func (p *Parser) modifyCurrent(in Input, modification string) Suggestion {
	return &ModificationSuggestion{
		Text:         fmt.Sprintf("I can modify your current %s based on your request. Would you like me to apply this change?", in.title()),
		Category:     KindIngredient,
		Modification: modification,
	}
}

func userOrAI(in Input) string {
	if strings.TrimSpace(in.UserMessage) != "" {
		return in.UserMessage
	}
	return in.AIMessage
}

func defaultRules() []rule {
	return []rule{
		{
			name: "user_modification",
			match: func(p *Parser, in Input) (string, bool) {
				return "", in.hasDish() && p.isModification(in.UserMessage)
			},
			build: func(p *Parser, in Input, _ string) Suggestion {
				return p.modifyCurrent(in, in.UserMessage)
			},
		},
		{
			name: "ai_modification",
			match: func(p *Parser, in Input) (string, bool) {
				if !in.hasDish() || in.Dish.Title == "" {
					return "", false
				}
				_, verb := lexicon.ContainsAny(in.AIMessage, p.lex.AIModificationVerbs)
				_, title := lexicon.ContainsAny(in.AIMessage, []string{in.Dish.Title})
				return "", verb && title
			},
			build: func(p *Parser, in Input, _ string) Suggestion {
				return p.modifyCurrent(in, in.AIMessage)
			},
		},
		{
			name: "suggested_dish",
			match: func(p *Parser, in Input) (string, bool) {
				m := suggestedDishPattern.FindStringSubmatch(in.AIMessage)
				if m == nil {
					return "", false
				}
				name := strings.TrimSpace(m[1])
				return name, name != ""
			},
			build: func(p *Parser, in Input, name string) Suggestion {
				if p.isModification(in.UserMessage) {
					return p.modifyCurrent(in, in.UserMessage)
				}
				return &DishSuggestion{
					Text:                fmt.Sprintf("How about trying %q? It's a great fit for what you asked. Would you like me to create this dish?", name),
					DishName:            name,
					OriginalUserMessage: in.UserMessage,
				}
			},
		},
		{
			name: "dietary",
			match: func(p *Parser, in Input) (string, bool) {
				return lexicon.MatchCategory(in.AIMessage, p.lex.Dietary)
			},
			build: func(p *Parser, in Input, diet string) Suggestion {
				// 有菜色的修改請求已由 user_modification 處理
				return &PreferenceSuggestion{
					Text:     fmt.Sprintf("Would you like me to create a new %s dish for you?", p.lex.DisplayName(diet)),
					Category: KindDietary,
					Value:    diet,
				}
			},
		},
		{
			name: "cuisine",
			match: func(p *Parser, in Input) (string, bool) {
				return lexicon.MatchCategory(in.AIMessage, p.lex.Cuisines)
			},
			build: func(p *Parser, in Input, cuisine string) Suggestion {
				return &PreferenceSuggestion{
					Text:     fmt.Sprintf("Would you like me to create a new %s dish for you?", p.lex.DisplayName(cuisine)),
					Category: KindCuisine,
					Value:    cuisine,
				}
			},
		},
		{
			name: "plate_style",
			match: func(p *Parser, in Input) (string, bool) {
				return lexicon.MatchCategory(in.AIMessage, p.lex.PlateStyles)
			},
			build: func(p *Parser, in Input, style string) Suggestion {
				label := p.lex.DisplayName(style)
				_, replate := lexicon.ContainsAny(in.UserMessage+" "+in.AIMessage, p.lex.ReplatePhrases)
				if in.hasDish() && replate {
					return &PlateStyleSuggestion{
						Text:             fmt.Sprintf("I can serve your %s as a %s. Would you like me to apply this change?", in.title(), label),
						Style:            style,
						Modification:     fmt.Sprintf("Serve it as a %s", style),
						IsTransformative: p.lex.IsTransformativeStyle(style),
					}
				}
				return &PlateStyleSuggestion{
					Text:             fmt.Sprintf("Would you like me to create a new dish served as a %s?", label),
					Style:            style,
					IsTransformative: p.lex.IsTransformativeStyle(style),
				}
			},
		},
		{
			name: "ingredient_substitution",
			match: func(p *Parser, in Input) (string, bool) {
				if _, ok := lexicon.ContainsAny(in.UserMessage, p.lex.SubstitutionPhrases); !ok {
					return "", false
				}
				return p.firstFoodItem(in)
			},
			build: func(p *Parser, in Input, item string) Suggestion {
				return &ModificationSuggestion{
					Text:         fmt.Sprintf("I can help you substitute %s in your %s. Would you like me to apply this change?", item, in.title()),
					Category:     KindIngredient,
					Modification: userOrAI(in),
					Ingredient:   item,
				}
			},
		},
		{
			name: "ingredient_addition",
			match: func(p *Parser, in Input) (string, bool) {
				if _, ok := lexicon.ContainsAny(in.UserMessage, p.lex.AdditionPhrases); !ok {
					return "", false
				}
				return p.firstFoodItem(in)
			},
			build: func(p *Parser, in Input, item string) Suggestion {
				return &ModificationSuggestion{
					Text:         fmt.Sprintf("Would you like me to add %s to your %s?", item, in.title()),
					Category:     KindIngredient,
					Modification: userOrAI(in),
					Ingredient:   item,
				}
			},
		},
		{
			name: "ingredient_preference",
			match: func(p *Parser, in Input) (string, bool) {
				if _, ok := lexicon.ContainsAny(in.UserMessage, p.lex.PreferencePhrases); !ok {
					return "", false
				}
				return p.firstFoodItem(in)
			},
			build: func(p *Parser, in Input, item string) Suggestion {
				return &PreferenceSuggestion{
					Text:     fmt.Sprintf("Would you like me to create a dish without %s?", item),
					Category: KindIngredientPreference,
					Value:    "no " + item,
				}
			},
		},
		{
			name: "substitution_keyword",
			match: func(p *Parser, in Input) (string, bool) {
				return lexicon.ContainsAny(in.AIMessage, p.lex.SubstitutionKeywords)
			},
			build: func(p *Parser, in Input, _ string) Suggestion {
				return &ModificationSuggestion{
					Text:         fmt.Sprintf("I can help substitute ingredients in your %s. Would you like me to apply this change?", in.title()),
					Category:     KindIngredient,
					Modification: userOrAI(in),
				}
			},
		},
		{
			name: "cooking_method",
			match: func(p *Parser, in Input) (string, bool) {
				if m, ok := lexicon.ContainsAny(in.UserMessage, p.lex.CookingMethods); ok {
					return m, true
				}
				return lexicon.ContainsAny(in.AIMessage, p.lex.CookingMethods)
			},
			build: func(p *Parser, in Input, method string) Suggestion {
				modification := in.UserMessage
				if strings.TrimSpace(modification) == "" {
					modification = fmt.Sprintf("Cook it with the %s method", method)
				}
				return &ModificationSuggestion{
					Text:         fmt.Sprintf("Would you like me to adapt your %s to %s it?", in.title(), method),
					Category:     KindCookingMethod,
					Modification: modification,
				}
			},
		},
		{
			name: "dish_name",
			match: func(p *Parser, in Input) (string, bool) {
				if name, ok := lexicon.ContainsAny(in.UserMessage, p.lex.DishNames); ok {
					return name, true
				}
				return lexicon.ContainsAny(in.AIMessage, p.lex.DishNames)
			},
			build: func(p *Parser, in Input, name string) Suggestion {
				return &DishSuggestion{
					Text:                fmt.Sprintf("Would you like me to create a %s recipe for you?", name),
					DishName:            name,
					OriginalUserMessage: in.UserMessage,
				}
			},
		},
		{
			name: "classic_inspired",
			match: func(p *Parser, in Input) (string, bool) {
				text := in.UserMessage + " " + in.AIMessage
				if _, ok := lexicon.ContainsAny(text, p.lex.InspiredPhrases); !ok {
					return "", false
				}
				return lexicon.MatchCategory(text, p.lex.Classics)
			},
			build: func(p *Parser, in Input, classic string) Suggestion {
				return &PreferenceSuggestion{
					Text:     fmt.Sprintf("Would you like me to create a dish inspired by %s?", p.lex.DisplayName(classic)),
					Category: KindClassicDish,
					Value:    classic,
				}
			},
		},
		{
			name: "catch_all",
			match: func(p *Parser, in Input) (string, bool) {
				if kw, ok := lexicon.ContainsAny(in.UserMessage, p.lex.GenericAddKeywords); ok {
					return kw, true
				}
				return lexicon.ContainsAny(in.UserMessage, p.lex.CatchAllWords)
			},
			build: func(p *Parser, in Input, _ string) Suggestion {
				return &ModificationSuggestion{
					Text:         fmt.Sprintf("I can update your %s based on your request. Would you like me to apply this change?", in.title()),
					Category:     KindIngredient,
					Modification: in.UserMessage,
				}
			},
		},
	}
}
