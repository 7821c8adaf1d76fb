package common

import (
	"strings"
	"time"
)

// Recipe 食譜內容
type Recipe struct {
	Ingredients   []string           `json:"ingredients"`
	Instructions  []string           `json:"instructions"`
	Nutrition     map[string]float64 `json:"nutrition,omitempty"`
	EstimatedTime string             `json:"estimated_time,omitempty"`
}

// IsEmpty 是否尚未取得食譜內容
func (r Recipe) IsEmpty() bool {
	return len(r.Ingredients) == 0 && len(r.Instructions) == 0
}

// Dish 菜色；ID 每次建立或載入時重新產生，不可重用
type Dish struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Recipe      Recipe    `json:"recipe"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}

// Clone 深拷貝菜色
func (d *Dish) Clone() *Dish {
	if d == nil {
		return nil
	}
	c := *d
	c.Recipe.Ingredients = append([]string(nil), d.Recipe.Ingredients...)
	c.Recipe.Instructions = append([]string(nil), d.Recipe.Instructions...)
	if d.Recipe.Nutrition != nil {
		c.Recipe.Nutrition = make(map[string]float64, len(d.Recipe.Nutrition))
		for k, v := range d.Recipe.Nutrition {
			c.Recipe.Nutrition[k] = v
		}
	}
	return &c
}

// CompleteDish 後端 /chat-dish-suggestion 回傳的扁平菜色結構
type CompleteDish struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Ingredients   []string           `json:"ingredients"`
	Instructions  []string           `json:"instructions"`
	Nutrition     map[string]float64 `json:"nutrition,omitempty"`
	EstimatedTime string             `json:"estimated_time,omitempty"`
}

// ToDish 轉換為尚未指定 ID 的菜色
func (c *CompleteDish) ToDish() *Dish {
	d := &Dish{
		Title:       c.Title,
		Description: c.Description,
		Recipe: Recipe{
			Ingredients:   c.Ingredients,
			Instructions:  c.Instructions,
			Nutrition:     c.Nutrition,
			EstimatedTime: c.EstimatedTime,
		},
	}
	return d.Clone()
}

// CompleteDishFrom 由菜色轉回扁平結構
func CompleteDishFrom(d *Dish) *CompleteDish {
	c := d.Clone()
	return &CompleteDish{
		Title:         c.Title,
		Description:   c.Description,
		Ingredients:   c.Recipe.Ingredients,
		Instructions:  c.Recipe.Instructions,
		Nutrition:     c.Recipe.Nutrition,
		EstimatedTime: c.Recipe.EstimatedTime,
	}
}

// Preferences 結構化偏好；wanted* 欄位在呼叫時由對話上下文推導
type Preferences struct {
	DietaryRestrictions   []string `json:"dietaryRestrictions"`
	Cuisines              []string `json:"cuisines"`
	ClassicDishes         []string `json:"classicDishes"`
	PlateStyles           []string `json:"plateStyles"`
	IngredientPreferences []string `json:"ingredientPreferences"`
	WantedIngredients     []string `json:"wantedIngredients,omitempty"`
	WantedStyles          []string `json:"wantedStyles,omitempty"`
	WantedDishTypes       []string `json:"wantedDishTypes,omitempty"`
	WantedClassicDishes   []string `json:"wantedClassicDishes,omitempty"`
	WantedDietary         []string `json:"wantedDietary,omitempty"`
}

// Clone 深拷貝偏好
func (p Preferences) Clone() Preferences {
	cp := func(s []string) []string {
		if s == nil {
			return nil
		}
		return append([]string{}, s...)
	}
	return Preferences{
		DietaryRestrictions:   cp(p.DietaryRestrictions),
		Cuisines:              cp(p.Cuisines),
		ClassicDishes:         cp(p.ClassicDishes),
		PlateStyles:           cp(p.PlateStyles),
		IngredientPreferences: cp(p.IngredientPreferences),
		WantedIngredients:     cp(p.WantedIngredients),
		WantedStyles:          cp(p.WantedStyles),
		WantedDishTypes:       cp(p.WantedDishTypes),
		WantedClassicDishes:   cp(p.WantedClassicDishes),
		WantedDietary:         cp(p.WantedDietary),
	}
}

// Merge 追加另一份偏好的結構化欄位（不取代、不重複）
func (p Preferences) Merge(other Preferences) Preferences {
	out := p.Clone()
	out.DietaryRestrictions = AppendUnique(out.DietaryRestrictions, other.DietaryRestrictions...)
	out.Cuisines = AppendUnique(out.Cuisines, other.Cuisines...)
	out.ClassicDishes = AppendUnique(out.ClassicDishes, other.ClassicDishes...)
	out.PlateStyles = AppendUnique(out.PlateStyles, other.PlateStyles...)
	out.IngredientPreferences = AppendUnique(out.IngredientPreferences, other.IngredientPreferences...)
	return out
}

// AppendUnique 追加不分大小寫的新值
func AppendUnique(list []string, values ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		seen[strings.ToLower(strings.TrimSpace(v))] = true
	}
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		list = append(list, v)
	}
	return list
}

// ChatTurn 送往 /chat 的對話訊息
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DishSuggestionResult /chat-dish-suggestion 的回應
type DishSuggestionResult struct {
	CompleteDish *CompleteDish `json:"completeDish,omitempty"`
	ChatSummary  string        `json:"chatSummary,omitempty"`
}

// ModifyResult /modify-recipe 的回應
type ModifyResult struct {
	IsTransformative bool   `json:"isTransformative"`
	Summary          string `json:"summary"`
	UpdatedDish      Dish   `json:"updatedDish"`
}
