package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     string
		ok       bool
	}{
		{"case insensitive", "Make It SPICY", []string{"spicy"}, "spicy", true},
		{"first declared wins", "swap and replace", []string{"replace", "swap"}, "replace", true},
		{"substring inside word", "spicier please", []string{"spic"}, "spic", true},
		{"no match", "hello there", []string{"spicy"}, "", false},
		{"empty keyword ignored", "anything", []string{""}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ContainsAny(tc.text, tc.keywords)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchCategory_DeclarationOrder(t *testing.T) {
	lex := Default()

	name, ok := MatchCategory("a vegan and keto friendly bowl", lex.Dietary)
	require.True(t, ok)
	assert.Equal(t, "vegan", name)

	name, ok = MatchCategory("Something Low-Carb", lex.Dietary)
	require.True(t, ok)
	assert.Equal(t, "keto", name)

	_, ok = MatchCategory("plain toast", lex.Cuisines)
	assert.False(t, ok)
}

func TestLookups(t *testing.T) {
	lex := Default()

	assert.True(t, lex.IsFoodItem("Maple Syrup"))
	assert.True(t, lex.IsFoodItem("honey"))
	assert.False(t, lex.IsFoodItem("syrup"))
	assert.True(t, lex.IsStopWord("The"))
	assert.True(t, lex.IsExcludedWord("style"))
	assert.True(t, lex.IsExcludedWord("let’s"))
	assert.True(t, lex.IsLowSignal("delicious"))
	assert.True(t, lex.IsLowSignal("make"))
	assert.Equal(t, 2, lex.MaxFoodTokens())
}

func TestDisplayName(t *testing.T) {
	lex := Default()

	assert.Equal(t, "Low Carb", lex.DisplayName("keto"))
	assert.Equal(t, "Low Sugar", lex.DisplayName("Diabetic"))
	assert.Equal(t, "Italian", lex.DisplayName("italian"))
	assert.Equal(t, "Nut Free", lex.DisplayName("nut-free"))
}

func TestIsTransformativeStyle(t *testing.T) {
	lex := Default()

	assert.True(t, lex.IsTransformativeStyle("bento box"))
	assert.True(t, lex.IsTransformativeStyle("Finger Food"))
	assert.False(t, lex.IsTransformativeStyle("family style"))
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Dietary[0].Keywords[0] = "changed"
	a.DisplayNames["keto"] = "changed"

	assert.Equal(t, "vegan", b.Dietary[0].Keywords[0])
	assert.Equal(t, "Low Carb", b.DisplayNames["keto"])
}

func TestParseYAML_Extends(t *testing.T) {
	data := []byte(`
dietary:
  - name: vegan
    keywords: [plant-forward]
  - name: nut-free
    keywords: [nut free, no nuts]
food_items: [Halloumi, honey]
off_topic: [horoscope]
display_names:
  nut-free: Nut Free
`)
	lex, err := ParseYAML(data)
	require.NoError(t, err)

	name, ok := MatchCategory("something plant-forward", lex.Dietary)
	require.True(t, ok)
	assert.Equal(t, "vegan", name)

	name, ok = MatchCategory("no nuts please", lex.Dietary)
	require.True(t, ok)
	assert.Equal(t, "nut-free", name)
	assert.Equal(t, "nut-free", lex.Dietary[len(lex.Dietary)-1].Name)

	assert.True(t, lex.IsFoodItem("halloumi"))
	_, ok = ContainsAny("what is my horoscope", lex.OffTopic)
	assert.True(t, ok)
	assert.Equal(t, "Nut Free", lex.DisplayName("nut-free"))

	count := 0
	for _, item := range lex.FoodItems {
		if item == "honey" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cooking_methods: [smoke roast]\n"), 0o644))

	lex, err := LoadFromYAML(path)
	require.NoError(t, err)
	_, ok := ContainsAny("let's smoke roast it", lex.CookingMethods)
	assert.True(t, ok)

	_, err = LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseYAML([]byte("dietary: [oops"))
	assert.Error(t, err)
}
