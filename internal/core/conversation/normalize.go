package conversation

import (
	"strings"
)

// 已知複數形對照（不是通用詞幹還原）
var pluralForms = map[string]string{
	"tamales":  "tamale",
	"tomatoes": "tomato",
	"cheeses":  "cheese",
	"pizzas":   "pizza",
	"soups":    "soup",
}

// 斷詞前先展開的縮寫，避免撇號留在 token 中
var contractions = []struct {
	from, to string
}{
	{"let's", "lets"},
	{"don't", "dont"},
	{"can't", "cant"},
	{"won't", "wont"},
	{"it's", "its"},
	{"that's", "thats"},
	{"what's", "whats"},
	{"how's", "hows"},
	{"where's", "wheres"},
	{"when's", "whens"},
	{"why's", "whys"},
	{"who's", "whos"},
}

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Normalize 轉小寫、去空白、還原已知複數
func Normalize(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = apostropheReplacer.Replace(v)
	v = strings.Trim(v, ".,!?;:\"()[]")
	v = strings.Join(strings.Fields(v), " ")
	if singular, ok := pluralForms[v]; ok {
		return singular
	}
	return v
}

// PreprocessContractions 展開縮寫；同時把彎引號統一為直引號
func PreprocessContractions(text string) string {
	out := apostropheReplacer.Replace(strings.ToLower(text))
	for _, c := range contractions {
		out = strings.ReplaceAll(out, c.from, c.to)
	}
	return out
}

// IsExcluded 永遠不能成為標籤的值："style" 與各種寫法的 "let's"
func IsExcluded(value string) bool {
	v := Normalize(value)
	switch v {
	case "style", "lets", "let's":
		return true
	}
	return false
}
