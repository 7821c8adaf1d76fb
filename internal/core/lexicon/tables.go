package lexicon

// 飲食類別（依宣告順序掃描，先匹配者勝出）
var dietaryTable = []Category{
	{Name: "vegan", Keywords: []string{"vegan", "plant-based", "plant based"}},
	{Name: "vegetarian", Keywords: []string{"vegetarian", "veggie", "meatless"}},
	{Name: "gluten-free", Keywords: []string{"gluten free", "gluten-free", "celiac"}},
	{Name: "dairy-free", Keywords: []string{"dairy free", "dairy-free", "lactose"}},
	{Name: "keto", Keywords: []string{"keto", "ketogenic", "low carb", "low-carb"}},
	{Name: "paleo", Keywords: []string{"paleo"}},
	{Name: "diabetic", Keywords: []string{"diabetic", "low sugar", "low-sugar", "sugar free", "sugar-free"}},
	{Name: "high-protein", Keywords: []string{"high protein", "high-protein", "protein packed", "protein-packed"}},
	{Name: "low-fat", Keywords: []string{"low fat", "low-fat"}},
	{Name: "pescatarian", Keywords: []string{"pescatarian"}},
	{Name: "halal", Keywords: []string{"halal"}},
	{Name: "kosher", Keywords: []string{"kosher"}},
}

var cuisineTable = []Category{
	{Name: "italian", Keywords: []string{"italian"}},
	{Name: "mexican", Keywords: []string{"mexican", "tex-mex"}},
	{Name: "chinese", Keywords: []string{"chinese", "szechuan", "cantonese"}},
	{Name: "japanese", Keywords: []string{"japanese"}},
	{Name: "indian", Keywords: []string{"indian"}},
	{Name: "thai", Keywords: []string{"thai"}},
	{Name: "french", Keywords: []string{"french"}},
	{Name: "mediterranean", Keywords: []string{"mediterranean"}},
	{Name: "korean", Keywords: []string{"korean"}},
	{Name: "greek", Keywords: []string{"greek"}},
	{Name: "spanish", Keywords: []string{"spanish"}},
	{Name: "vietnamese", Keywords: []string{"vietnamese"}},
	{Name: "middle eastern", Keywords: []string{"middle eastern", "lebanese", "persian"}},
	{Name: "american", Keywords: []string{"american", "southern comfort"}},
}

var plateStyleTable = []Category{
	{Name: "salad bowl", Keywords: []string{"salad bowl", "salad"}},
	{Name: "bento box", Keywords: []string{"bento box", "bento"}},
	{Name: "finger food", Keywords: []string{"finger food", "appetizer", "bite-sized", "bite sized"}},
	{Name: "grain bowl", Keywords: []string{"grain bowl", "buddha bowl", "poke bowl", "rice bowl"}},
	{Name: "wrap", Keywords: []string{"wrap", "burrito"}},
	{Name: "skewers", Keywords: []string{"skewer", "kebab"}},
	{Name: "family style", Keywords: []string{"family style", "family-style", "sharing platter"}},
	{Name: "fine dining", Keywords: []string{"fine dining", "plated dessert", "tasting menu"}},
}

// 會改變菜色本質的擺盤方式
var transformativePlateStyles = []string{"salad bowl", "bento box", "finger food"}

var classicDishTable = []Category{
	{Name: "carbonara", Keywords: []string{"carbonara"}},
	{Name: "lasagna", Keywords: []string{"lasagna", "lasagne"}},
	{Name: "paella", Keywords: []string{"paella"}},
	{Name: "pad thai", Keywords: []string{"pad thai"}},
	{Name: "ramen", Keywords: []string{"ramen"}},
	{Name: "sushi", Keywords: []string{"sushi"}},
	{Name: "risotto", Keywords: []string{"risotto"}},
	{Name: "biryani", Keywords: []string{"biryani"}},
	{Name: "pho", Keywords: []string{"pho "}},
	{Name: "tikka masala", Keywords: []string{"tikka masala"}},
	{Name: "coq au vin", Keywords: []string{"coq au vin"}},
	{Name: "beef wellington", Keywords: []string{"beef wellington", "wellington"}},
	{Name: "bibimbap", Keywords: []string{"bibimbap"}},
	{Name: "moussaka", Keywords: []string{"moussaka"}},
	{Name: "tamale", Keywords: []string{"tamale"}},
	{Name: "shakshuka", Keywords: []string{"shakshuka"}},
}

// 篩選名單：可視為食材的詞（允許多字詞）
var foodItems = []string{
	"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham",
	"salmon", "tuna", "shrimp", "cod", "fish", "crab", "scallop",
	"tofu", "tempeh", "egg", "chickpea", "lentil", "bean", "black bean",
	"rice", "pasta", "noodle", "quinoa", "bread", "tortilla", "potato", "sweet potato",
	"tomato", "garlic", "onion", "shallot", "ginger", "carrot", "celery", "spinach", "kale",
	"broccoli", "cauliflower", "zucchini", "eggplant", "mushroom", "pepper", "bell pepper",
	"chili", "jalapeno", "corn", "pea", "avocado", "cucumber", "lettuce", "cabbage",
	"lemon", "lime", "orange", "apple", "banana", "mango", "pineapple", "berry", "strawberry", "blueberry",
	"cheese", "parmesan", "mozzarella", "feta", "cheddar", "butter", "cream", "milk", "yogurt",
	"coconut milk", "olive oil", "soy sauce", "honey", "maple syrup", "sugar", "flour",
	"basil", "cilantro", "parsley", "thyme", "rosemary", "oregano", "cumin", "paprika", "cinnamon",
	"peanut", "almond", "walnut", "cashew", "sesame", "chocolate", "vanilla", "oat",
}

// 單獨成立的菜名
var dishNames = []string{
	"pizza", "burger", "lasagna", "curry", "stir fry", "stir-fry", "tacos", "taco", "burrito",
	"sandwich", "soup", "stew", "chili con carne", "omelette", "pancakes", "salad",
	"risotto", "paella", "ramen", "sushi", "carbonara", "pad thai", "fried rice", "casserole",
	"quiche", "enchiladas", "dumplings", "meatballs", "smoothie bowl", "tamale",
}

// 明確的離題主題
var offTopicKeywords = []string{
	"politics", "political", "election", "president", "weather", "forecast",
	"sports", "football", "basketball", "baseball", "soccer",
	"relationship", "dating", "boyfriend", "girlfriend",
	"my health", "health insurance", "medical advice", "doctor",
	"stock market", "crypto", "bitcoin", "homework", "movie", "celebrity", "religion", "video game",
}

// 修改意圖片語（分類器與解析器共用）
var modificationPhrases = []string{
	"replace", "change", "modify", "swap", "instead of", "substitute", "tweak", "adjust",
	"make this", "make it", "can you make", "without the", "remove the", "take out", "leave out",
	"spicy", "spicier", "milder", "less spicy", "sweeter", "less sweet", "saltier", "less salt",
	"healthier", "lighter", "creamier", "crispier", "cheesier",
	"vegan", "vegetarian", "gluten free", "gluten-free", "dairy free", "dairy-free", "low carb", "keto",
	"use my", "i have some", "add to this", "add some", "add more", "add it to", "to this dish",
	"to the dish", "in the current dish", "this recipe", "the recipe", "current recipe",
}

// 明確的轉換片語
var remixPhrases = []string{
	"make it a", "turn this into", "turn it into", "transform", "remix", "remake", "convert this to", "convert it to",
}

// 明確的新菜色請求片語
var recipeRequestPhrases = []string{
	"give me a recipe", "recipe for", "what should i cook", "what should i make", "what can i cook",
	"new recipe", "new dish", "suggest a dish", "suggest something", "dinner idea", "lunch idea",
	"breakfast idea", "meal idea", "i'm hungry", "im hungry", "i want to cook", "i want to make",
	"something to eat", "surprise me",
	"carbonara", "pizza", "sushi", "lasagna", "paella", "ramen", "tacos", "risotto", "curry", "pad thai",
}

// AI 訊息中表示已修改/將修改的動詞
var aiModificationVerbs = []string{
	"i can modify", "i can change", "i can adjust", "i can update", "i've modified", "i've updated",
	"i have modified", "i have updated", "i'll modify", "i'll update", "i'll adjust", "modify your",
	"update your", "adjust your",
}

// 重新擺盤片語
var replatePhrases = []string{"change to", "make it a", "serve as", "serve it as", "turn it into"}

// 食材替換片語
var substitutionPhrases = []string{
	"don't have", "dont have", "do not have", "instead of", "make it with", "out of", "ran out",
	"replace", "substitute", "swap",
}

// 食材加入片語
var additionPhrases = []string{"have", "add", "include", "with", "use", "put"}

// 食材偏好片語
var ingredientPreferencePhrases = []string{
	"don't like", "dont like", "do not like", "hate", "avoid", "prefer", "allergic", "can't eat", "cant eat",
}

// 通用替換關鍵字（掃描 AI 訊息）
var substitutionKeywords = []string{
	"substitute", "substitution", "replace", "replacement", "swap", "alternative", "allergic", "allergy",
}

var cookingMethods = []string{
	"grill", "bake", "roast", "fry", "sauté", "saute", "steam", "boil", "braise", "poach",
	"slow cook", "slow-cook", "air fry", "air-fry", "smoke", "broil", "pressure cook", "sous vide",
}

// 一般加料關鍵字
var genericAddKeywords = []string{"add", "extra", "include", "more", "topping"}

// 保底觸發詞
var catchAllWords = []string{"banana", "spicy", "sweet"}

// 「建議某道菜」的開頭片語
var suggestionLeads = []string{"how about", "i suggest", "would you like to see"}

// 「靈感來自」片語
var inspiredPhrases = []string{"inspired by", "in the style of", "a twist on", "take on"}

// 停用詞
var stopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "so", "to", "of", "in", "on", "at", "for", "by",
	"with", "from", "up", "about", "into", "over", "after", "is", "are", "was", "were", "be", "been",
	"am", "i", "me", "my", "we", "our", "you", "your", "it", "its", "this", "that", "these", "those",
	"thats", "whats", "hows", "wheres", "whens", "whys", "whos", "dont", "cant", "wont",
	"what", "how", "where", "when", "why", "who", "which", "do", "does", "did", "can", "could",
	"would", "should", "will", "just", "some", "any", "please", "thanks", "thank", "really", "very",
	"like", "want", "need", "have", "has", "had", "not", "no", "yes", "maybe", "too", "also",
}

// 永遠排除的詞（含上游殘留的 "style"）
var excludeWords = []string{"style", "lets", "let's", "let’s", "dish", "recipe", "food", "meal", "something"}

// 低訊號動作詞
var actionWords = []string{
	"make", "cook", "give", "get", "try", "show", "tell", "suggest", "create", "prepare", "use",
	"add", "put", "change", "replace", "swap", "substitute", "remove", "turn", "go", "let", "see",
}

// 低訊號形容詞
var descriptiveWords = []string{
	"good", "great", "nice", "delicious", "tasty", "yummy", "quick", "easy", "simple", "new",
	"different", "better", "best", "more", "less", "little", "lot", "bit", "kind", "sort", "today", "tonight",
}

// 類別值的顯示名稱
var displayNames = map[string]string{
	"keto":            "Low Carb",
	"diabetic":        "Low Sugar",
	"vegan":           "Vegan",
	"vegetarian":      "Vegetarian",
	"gluten-free":     "Gluten Free",
	"dairy-free":      "Dairy Free",
	"paleo":           "Paleo",
	"high-protein":    "High Protein",
	"low-fat":         "Low Fat",
	"pescatarian":     "Pescatarian",
	"halal":           "Halal",
	"kosher":          "Kosher",
	"middle eastern":  "Middle Eastern",
	"salad bowl":      "Salad Bowl",
	"bento box":       "Bento Box",
	"finger food":     "Finger Food",
	"grain bowl":      "Grain Bowl",
	"family style":    "Family Style",
	"fine dining":     "Fine Dining",
	"pad thai":        "Pad Thai",
	"tikka masala":    "Tikka Masala",
	"coq au vin":      "Coq au Vin",
	"beef wellington": "Beef Wellington",
}
