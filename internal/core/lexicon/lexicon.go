// Package lexicon 對話引擎使用的靜態關鍵字表。
//
// 比對方式：
//   - 片語表（離題、修改、轉換、請求…）使用不分大小寫的子字串比對
//   - 類別表（飲食、菜系、擺盤、經典菜）依宣告順序掃描，先命中者勝出
//   - 食材、停用詞、低訊號詞使用精確的單字查找
package lexicon

import (
	"strings"
	"unicode"
)

// Category 一個具名類別與其關鍵字
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon 關鍵字表集合；建立後視為唯讀
type Lexicon struct {
	Dietary     []Category
	Cuisines    []Category
	PlateStyles []Category
	Classics    []Category

	FoodItems []string
	DishNames []string

	OffTopic             []string
	ModificationPhrases  []string
	RemixPhrases         []string
	RecipeRequests       []string
	AIModificationVerbs  []string
	ReplatePhrases       []string
	SubstitutionPhrases  []string
	AdditionPhrases      []string
	PreferencePhrases    []string
	SubstitutionKeywords []string
	CookingMethods       []string
	GenericAddKeywords   []string
	CatchAllWords        []string
	SuggestionLeads      []string
	InspiredPhrases      []string

	TransformativeStyles []string
	DisplayNames         map[string]string

	foodSet       map[string]bool
	stopSet       map[string]bool
	excludeSet    map[string]bool
	lowSignalSet  map[string]bool
	maxFoodTokens int
}

// Default 回傳內建關鍵字表的新副本
func Default() *Lexicon {
	lex := &Lexicon{
		Dietary:              cloneCategories(dietaryTable),
		Cuisines:             cloneCategories(cuisineTable),
		PlateStyles:          cloneCategories(plateStyleTable),
		Classics:             cloneCategories(classicDishTable),
		FoodItems:            cloneStrings(foodItems),
		DishNames:            cloneStrings(dishNames),
		OffTopic:             cloneStrings(offTopicKeywords),
		ModificationPhrases:  cloneStrings(modificationPhrases),
		RemixPhrases:         cloneStrings(remixPhrases),
		RecipeRequests:       cloneStrings(recipeRequestPhrases),
		AIModificationVerbs:  cloneStrings(aiModificationVerbs),
		ReplatePhrases:       cloneStrings(replatePhrases),
		SubstitutionPhrases:  cloneStrings(substitutionPhrases),
		AdditionPhrases:      cloneStrings(additionPhrases),
		PreferencePhrases:    cloneStrings(ingredientPreferencePhrases),
		SubstitutionKeywords: cloneStrings(substitutionKeywords),
		CookingMethods:       cloneStrings(cookingMethods),
		GenericAddKeywords:   cloneStrings(genericAddKeywords),
		CatchAllWords:        cloneStrings(catchAllWords),
		SuggestionLeads:      cloneStrings(suggestionLeads),
		InspiredPhrases:      cloneStrings(inspiredPhrases),
		TransformativeStyles: cloneStrings(transformativePlateStyles),
		DisplayNames:         make(map[string]string, len(displayNames)),
	}
	for k, v := range displayNames {
		lex.DisplayNames[k] = v
	}
	lex.index()
	return lex
}

// index 重建查找用的集合
func (l *Lexicon) index() {
	l.foodSet = toSet(l.FoodItems)
	l.stopSet = toSet(stopWords)
	l.excludeSet = toSet(excludeWords)
	l.lowSignalSet = toSet(append(cloneStrings(actionWords), descriptiveWords...))
	l.maxFoodTokens = 1
	for _, item := range l.FoodItems {
		if n := len(strings.Fields(item)); n > l.maxFoodTokens {
			l.maxFoodTokens = n
		}
	}
}

// ContainsAny 不分大小寫的子字串比對，回傳第一個命中的關鍵字
func ContainsAny(text string, keywords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

// MatchCategory 依宣告順序掃描類別，回傳第一個命中的類別名稱
func MatchCategory(text string, categories []Category) (string, bool) {
	lower := strings.ToLower(text)
	for _, c := range categories {
		if _, ok := ContainsAny(lower, c.Keywords); ok {
			return c.Name, true
		}
	}
	return "", false
}

// IsFoodItem 是否為篩選名單中的食材（精確比對）
func (l *Lexicon) IsFoodItem(token string) bool {
	return l.foodSet[strings.ToLower(strings.TrimSpace(token))]
}

// MaxFoodTokens 食材名稱最多包含幾個字
func (l *Lexicon) MaxFoodTokens() int {
	return l.maxFoodTokens
}

// IsStopWord 是否為停用詞
func (l *Lexicon) IsStopWord(token string) bool {
	return l.stopSet[strings.ToLower(token)]
}

// IsExcludedWord 是否為永遠排除的詞
func (l *Lexicon) IsExcludedWord(token string) bool {
	return l.excludeSet[strings.ToLower(token)]
}

// IsLowSignal 是否為低訊號的動作詞或形容詞
func (l *Lexicon) IsLowSignal(token string) bool {
	return l.lowSignalSet[strings.ToLower(token)]
}

// IsTransformativeStyle 擺盤方式是否會改變菜色本質
func (l *Lexicon) IsTransformativeStyle(style string) bool {
	_, ok := ContainsAny(style, l.TransformativeStyles)
	return ok
}

// DisplayName 類別值的顯示名稱，未定義時將每個字首字母大寫
func (l *Lexicon) DisplayName(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	if name, ok := l.DisplayNames[key]; ok {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(key, "-", " "))
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// Capitalize 將第一個字母轉為大寫
func Capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func cloneStrings(s []string) []string {
	return append([]string(nil), s...)
}

func cloneCategories(cs []Category) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = Category{Name: c.Name, Keywords: cloneStrings(c.Keywords)}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
