package suggestion

import (
	"recipe-chat/internal/pkg/common"
)

// Kind 建議類型
type Kind string

const (
	KindDish                 Kind = "dish"
	KindDietary              Kind = "dietary"
	KindCuisine              Kind = "cuisine"
	KindPlateStyle           Kind = "plate_style"
	KindClassicDish          Kind = "classic_dish"
	KindIngredient           Kind = "ingredient"
	KindCookingMethod        Kind = "cooking_method"
	KindIngredientPreference Kind = "ingredient_preference"
)

// Suggestion 待使用者確認的建議；具體型別為下列四種之一
type Suggestion interface {
	Kind() Kind
	Message() string
	isSuggestion()
}

// DishSuggestion 載入或產生一道菜
type DishSuggestion struct {
	Text                string
	CompleteDish        *common.CompleteDish
	DishName            string
	Modification        string
	OriginalUserMessage string
}

// PreferenceSuggestion 以某個偏好產生新菜色（dietary、cuisine、classic_dish、ingredient_preference）
type PreferenceSuggestion struct {
	Text     string
	Category Kind
	Value    string
}

// PlateStyleSuggestion 改變擺盤；Modification 為空時代表產生新菜色
type PlateStyleSuggestion struct {
	Text             string
	Style            string
	Modification     string
	IsTransformative bool
}

// ModificationSuggestion 修改目前菜色（ingredient、cooking_method）
type ModificationSuggestion struct {
	Text           string
	Category       Kind
	Modification   string
	Ingredient     string
	ShowViewRecipe bool
}

func (s *DishSuggestion) Kind() Kind         { return KindDish }
func (s *PreferenceSuggestion) Kind() Kind   { return s.Category }
func (s *PlateStyleSuggestion) Kind() Kind   { return KindPlateStyle }
func (s *ModificationSuggestion) Kind() Kind { return s.Category }

func (s *DishSuggestion) Message() string         { return s.Text }
func (s *PreferenceSuggestion) Message() string   { return s.Text }
func (s *PlateStyleSuggestion) Message() string   { return s.Text }
func (s *ModificationSuggestion) Message() string { return s.Text }

func (*DishSuggestion) isSuggestion()         {}
func (*PreferenceSuggestion) isSuggestion()   {}
func (*PlateStyleSuggestion) isSuggestion()   {}
func (*ModificationSuggestion) isSuggestion() {}

// Controls 建議顯示時的按鈕組合
type Controls string

const (
	ControlsConfirm    Controls = "confirm_reject"
	ControlsViewRecipe Controls = "continue_view_recipe"
)

// View 建議的扁平表示，供 API 回應使用
type View struct {
	Type                Kind                 `json:"type"`
	Message             string               `json:"message"`
	Controls            Controls             `json:"controls"`
	Modification        string               `json:"modification,omitempty"`
	DishName            string               `json:"dishName,omitempty"`
	Value               string               `json:"value,omitempty"`
	Ingredient          string               `json:"ingredient,omitempty"`
	IsTransformative    bool                 `json:"isTransformative,omitempty"`
	ShowViewRecipe      bool                 `json:"showViewRecipe,omitempty"`
	OriginalUserMessage string               `json:"originalUserMessage,omitempty"`
	CompleteDish        *common.CompleteDish `json:"completeDish,omitempty"`
}

// Describe 轉換為 View；s 為 nil 時回傳 nil
func Describe(s Suggestion) *View {
	if s == nil {
		return nil
	}
	v := &View{Type: s.Kind(), Message: s.Message(), Controls: ControlsConfirm}
	switch x := s.(type) {
	case *DishSuggestion:
		v.DishName = x.DishName
		v.Modification = x.Modification
		v.OriginalUserMessage = x.OriginalUserMessage
		v.CompleteDish = x.CompleteDish
	case *PreferenceSuggestion:
		v.Value = x.Value
	case *PlateStyleSuggestion:
		v.Value = x.Style
		v.Modification = x.Modification
		v.IsTransformative = x.IsTransformative
	case *ModificationSuggestion:
		v.Modification = x.Modification
		v.Ingredient = x.Ingredient
		v.ShowViewRecipe = x.ShowViewRecipe
		if x.ShowViewRecipe {
			v.Controls = ControlsViewRecipe
		}
	}
	return v
}

// DishContext 建議的對象：目前菜色優先，其次為尚未確認的菜色
func DishContext(current, pending *common.Dish) *common.Dish {
	if current != nil {
		return current
	}
	return pending
}
