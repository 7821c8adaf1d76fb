package suggestion

import (
	"testing"

	"recipe-chat/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lemonChicken() *common.Dish {
	return &common.Dish{ID: "d1", Title: "Lemon Chicken", Description: "Bright and quick"}
}

func TestParser_RuleOrder(t *testing.T) {
	p := NewParser(nil)
	assert.Equal(t, []string{
		"user_modification",
		"ai_modification",
		"suggested_dish",
		"dietary",
		"cuisine",
		"plate_style",
		"ingredient_substitution",
		"ingredient_addition",
		"ingredient_preference",
		"substitution_keyword",
		"cooking_method",
		"dish_name",
		"classic_inspired",
		"catch_all",
	}, p.RuleNames())
}

func TestParser_Match(t *testing.T) {
	tests := []struct {
		name     string
		ai       string
		user     string
		dish     *common.Dish
		wantRule string
		wantKind Kind
	}{
		{"user modification with dish", "", "make it vegan", lemonChicken(), "user_modification", KindIngredient},
		{"ai acknowledges modification", "I've updated your Lemon Chicken with less salt.", "thanks", lemonChicken(), "ai_modification", KindIngredient},
		{"suggested dish", `How about trying "Miso Ramen"? It's warming.`, "something warm", nil, "suggested_dish", KindDish},
		{"suggested dish redirected to modification", "How about a Thai curry?", "can you make it spicy", nil, "suggested_dish", KindIngredient},
		{"dietary", "A keto option could be great.", "hmm", nil, "dietary", KindDietary},
		{"cuisine", "Italian food is always comforting.", "hmm", nil, "cuisine", KindCuisine},
		{"plate style", "This would work well as a bento box.", "could you serve as a bento?", lemonChicken(), "plate_style", KindPlateStyle},
		{"substitution", "Sure thing.", "I don't have eggs", nil, "ingredient_substitution", KindIngredient},
		{"addition", "Nice.", "I have spinach", nil, "ingredient_addition", KindIngredient},
		{"ingredient preference", "Noted.", "I hate mushrooms", nil, "ingredient_preference", KindIngredientPreference},
		{"substitution keyword", "A good alternative is available.", "ok", nil, "substitution_keyword", KindIngredient},
		{"cooking method", "Sounds fun.", "could we grill it", nil, "cooking_method", KindCookingMethod},
		{"dish name", "Good choice.", "maybe a burger", nil, "dish_name", KindDish},
		{"classic inspired", "Lovely.", "something inspired by moussaka", nil, "classic_inspired", KindClassicDish},
		{"catch all", "Okay.", "extra crunchy please", nil, "catch_all", KindIngredient},
	}
	p := NewParser(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, rule := p.Match(Input{AIMessage: tc.ai, UserMessage: tc.user, Dish: tc.dish})
			require.NotNil(t, s)
			assert.Equal(t, tc.wantRule, rule)
			assert.Equal(t, tc.wantKind, s.Kind())
			assert.NotEmpty(t, s.Message())
		})
	}
}

func TestParser_NoSuggestion(t *testing.T) {
	p := NewParser(nil)
	assert.Nil(t, p.Parse("Hi there! How can I help?", "hello", nil))
}

func TestParser_UserModificationDetails(t *testing.T) {
	p := NewParser(nil)
	s := p.Parse("", "make it vegan", lemonChicken())

	m, ok := s.(*ModificationSuggestion)
	require.True(t, ok)
	assert.Equal(t, "make it vegan", m.Modification)
	assert.Equal(t, "I can modify your current Lemon Chicken based on your request. Would you like me to apply this change?", m.Text)
	assert.False(t, m.ShowViewRecipe)
}

func TestParser_SuggestedDishName(t *testing.T) {
	p := NewParser(nil)
	s := p.Parse(`How about trying "Miso Ramen"? It's warming.`, "something warm", nil)

	d, ok := s.(*DishSuggestion)
	require.True(t, ok)
	assert.Equal(t, "Miso Ramen", d.DishName)
	assert.Equal(t, "something warm", d.OriginalUserMessage)
	assert.Nil(t, d.CompleteDish)
}

func TestParser_PlateStyle(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse("This would work well as a bento box.", "could you serve as a bento?", lemonChicken())
	ps, ok := s.(*PlateStyleSuggestion)
	require.True(t, ok)
	assert.Equal(t, "bento box", ps.Style)
	assert.True(t, ps.IsTransformative)
	assert.NotEmpty(t, ps.Modification)

	s = p.Parse("A family style platter works.", "ok", nil)
	ps, ok = s.(*PlateStyleSuggestion)
	require.True(t, ok)
	assert.Equal(t, "family style", ps.Style)
	assert.False(t, ps.IsTransformative)
	assert.Empty(t, ps.Modification)
}

func TestParser_DietaryModificationGoesToUserModification(t *testing.T) {
	p := NewParser(nil)

	s, rule := p.Match(Input{AIMessage: "A keto version sounds great.", UserMessage: "make it keto", Dish: lemonChicken()})
	require.NotNil(t, s)
	assert.Equal(t, "user_modification", rule)
	m, ok := s.(*ModificationSuggestion)
	require.True(t, ok)
	assert.Equal(t, "make it keto", m.Modification)

	s, rule = p.Match(Input{AIMessage: "A keto version sounds great.", UserMessage: "hmm", Dish: lemonChicken()})
	require.NotNil(t, s)
	assert.Equal(t, "dietary", rule)
	assert.Equal(t, KindDietary, s.Kind())
}

func TestParser_DietaryUsesDisplayName(t *testing.T) {
	p := NewParser(nil)
	s := p.Parse("A keto option could be great.", "hmm", nil)

	pref, ok := s.(*PreferenceSuggestion)
	require.True(t, ok)
	assert.Equal(t, "keto", pref.Value)
	assert.Contains(t, pref.Text, "Low Carb")
}

func TestParser_IngredientPreference(t *testing.T) {
	p := NewParser(nil)
	s := p.Parse("Noted.", "I hate mushrooms", nil)

	pref, ok := s.(*PreferenceSuggestion)
	require.True(t, ok)
	assert.Equal(t, "no mushroom", pref.Value)
}

func TestDescribe(t *testing.T) {
	assert.Nil(t, Describe(nil))

	v := Describe(&ModificationSuggestion{Text: "done", Category: KindIngredient, ShowViewRecipe: true})
	assert.Equal(t, ControlsViewRecipe, v.Controls)
	assert.True(t, v.ShowViewRecipe)

	v = Describe(&DishSuggestion{Text: "load?", DishName: "Pho"})
	assert.Equal(t, KindDish, v.Type)
	assert.Equal(t, ControlsConfirm, v.Controls)
	assert.Equal(t, "Pho", v.DishName)
}

func TestDishContext(t *testing.T) {
	cur := &common.Dish{Title: "A"}
	pend := &common.Dish{Title: "B"}
	assert.Equal(t, cur, DishContext(cur, pend))
	assert.Equal(t, pend, DishContext(nil, pend))
	assert.Nil(t, DishContext(nil, nil))
}
