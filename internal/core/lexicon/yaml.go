package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extension 額外關鍵字檔案格式
//
//	dietary:
//	  - name: vegan
//	    keywords: [plant-forward]
//	food_items: [halloumi, gochujang]
//	off_topic: [horoscope]
//	display_names:
//	  keto: Low Carb
type Extension struct {
	Dietary             []Category        `yaml:"dietary"`
	Cuisines            []Category        `yaml:"cuisines"`
	PlateStyles         []Category        `yaml:"plate_styles"`
	Classics            []Category        `yaml:"classic_dishes"`
	FoodItems           []string          `yaml:"food_items"`
	DishNames           []string          `yaml:"dish_names"`
	OffTopic            []string          `yaml:"off_topic"`
	ModificationPhrases []string          `yaml:"modification_phrases"`
	RemixPhrases        []string          `yaml:"remix_phrases"`
	RecipeRequests      []string          `yaml:"recipe_requests"`
	CookingMethods      []string          `yaml:"cooking_methods"`
	DisplayNames        map[string]string `yaml:"display_names"`
}

// LoadFromYAML 以內建表為基礎，合併 YAML 檔中的額外關鍵字
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 內容並合併到內建表
func ParseYAML(data []byte) (*Lexicon, error) {
	var ext Extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon yaml: %w", err)
	}
	lex := Default()
	lex.Extend(ext)
	return lex, nil
}

// Extend 合併額外關鍵字；既有類別追加關鍵字，新類別附加在最後
func (l *Lexicon) Extend(ext Extension) {
	l.Dietary = mergeCategories(l.Dietary, ext.Dietary)
	l.Cuisines = mergeCategories(l.Cuisines, ext.Cuisines)
	l.PlateStyles = mergeCategories(l.PlateStyles, ext.PlateStyles)
	l.Classics = mergeCategories(l.Classics, ext.Classics)
	l.FoodItems = mergeStrings(l.FoodItems, ext.FoodItems)
	l.DishNames = mergeStrings(l.DishNames, ext.DishNames)
	l.OffTopic = mergeStrings(l.OffTopic, ext.OffTopic)
	l.ModificationPhrases = mergeStrings(l.ModificationPhrases, ext.ModificationPhrases)
	l.RemixPhrases = mergeStrings(l.RemixPhrases, ext.RemixPhrases)
	l.RecipeRequests = mergeStrings(l.RecipeRequests, ext.RecipeRequests)
	l.CookingMethods = mergeStrings(l.CookingMethods, ext.CookingMethods)
	for k, v := range ext.DisplayNames {
		l.DisplayNames[strings.ToLower(strings.TrimSpace(k))] = v
	}
	l.index()
}

func mergeStrings(base, extra []string) []string {
	seen := toSet(base)
	for _, v := range extra {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		base = append(base, v)
	}
	return base
}

func mergeCategories(base, extra []Category) []Category {
	for _, e := range extra {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			continue
		}
		found := false
		for i := range base {
			if base[i].Name == name {
				base[i].Keywords = mergeStrings(base[i].Keywords, e.Keywords)
				found = true
				break
			}
		}
		if !found {
			keywords := mergeStrings(nil, e.Keywords)
			if len(keywords) == 0 {
				keywords = []string{name}
			}
			base = append(base, Category{Name: name, Keywords: keywords})
		}
	}
	return base
}
