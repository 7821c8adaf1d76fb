package conversation

import (
	"regexp"
	"strings"
	"unicode"

	"recipe-chat/internal/core/lexicon"
)

// replacePattern 被替換的舊食材位於哪個群組
type replacePattern struct {
	re       *regexp.Regexp
	oldGroup int
}

// 可辨識的替換句型；舊食材不可成為新標籤
var replacePatterns = []replacePattern{
	{regexp.MustCompile(`replace\s+(.+?)\s+with\s+(.+)`), 1},
	{regexp.MustCompile(`change\s+(.+?)\s+to\s+(.+)`), 1},
	{regexp.MustCompile(`swap\s+(.+?)\s+for\s+(.+)`), 1},
	{regexp.MustCompile(`substitute\s+(.+?)\s+with\s+(.+)`), 1},
	{regexp.MustCompile(`(?:use\s+)?(.+?)\s+instead\s+of\s+(.+)`), 2},
}

var clauseBreaks = []string{",", ".", ";", "!", "?", " and ", " but ", " then "}

// Tokenize 展開縮寫、移除撇號後以非字母數字切分
func Tokenize(text string) []string {
	prepared := PreprocessContractions(text)
	prepared = strings.ReplaceAll(prepared, "'", "")
	return strings.FieldsFunc(prepared, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

// ReplacedPhrases 回傳訊息中被替換掉的原始片語
func ReplacedPhrases(message string) []string {
	text := PreprocessContractions(message)
	var out []string
	for _, p := range replacePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if old := cutClause(m[p.oldGroup]); old != "" {
			out = append(out, old)
		}
	}
	return out
}

// cutClause 只保留第一個子句
func cutClause(s string) string {
	for _, b := range clauseBreaks {
		if i := strings.Index(s, b); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// ExtractFoodItems 取出篩選名單中的食材；替換句型中的舊食材會被排除
func ExtractFoodItems(lex *lexicon.Lexicon, message string) []string {
	suppressed := make(map[string]bool)
	for _, old := range ReplacedPhrases(message) {
		for _, item := range matchFoodItems(lex, Tokenize(old)) {
			suppressed[item] = true
		}
	}

	seen := make(map[string]bool)
	var out []string
	for _, item := range matchFoodItems(lex, Tokenize(message)) {
		if suppressed[item] || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// matchFoodItems 由長到短比對多字食材名稱
func matchFoodItems(lex *lexicon.Lexicon, tokens []string) []string {
	var out []string
	for i := 0; i < len(tokens); {
		matched := false
		for n := min(lex.MaxFoodTokens(), len(tokens)-i); n >= 1; n-- {
			if item, ok := foodItemOf(lex, strings.Join(tokens[i:i+n], " ")); ok {
				out = append(out, item)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return out
}

// foodItemOf 正規化後查找名單，再嘗試去掉結尾的 s
func foodItemOf(lex *lexicon.Lexicon, phrase string) (string, bool) {
	v := Normalize(phrase)
	if lex.IsFoodItem(v) {
		return v, true
	}
	if trimmed := strings.TrimSuffix(v, "s"); trimmed != v && lex.IsFoodItem(trimmed) {
		return trimmed, true
	}
	return "", false
}

// ExtractMeaningfulWords 自由文字的備援路徑：去除停用詞與低訊號詞後的單字
func ExtractMeaningfulWords(lex *lexicon.Lexicon, sentence string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokenize(sentence) {
		v := Normalize(tok)
		if len([]rune(v)) < 3 || isNumeric(v) {
			continue
		}
		if IsExcluded(v) || lex.IsExcludedWord(v) || lex.IsStopWord(v) || lex.IsLowSignal(v) {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// FoodItemTags 篩選名單中的食材，作為食材標籤候選
func FoodItemTags(lex *lexicon.Lexicon, message string) []Candidate {
	var out []Candidate
	for _, v := range ExtractFoodItems(lex, message) {
		if !IsExcluded(v) {
			out = append(out, Candidate{Type: TagIngredient, Value: v})
		}
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
