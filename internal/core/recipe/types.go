package recipe

// IngredientRef is a named ingredient attached to a search result.
type IngredientRef struct {
	Name string `json:"name"`
}

// Stub is a single entry from the ingredient-based recipe search,
// kept as the upstream returns it.
type Stub struct {
	ID                    int             `json:"id"`
	Title                 string          `json:"title"`
	Image                 string          `json:"image,omitempty"`
	UsedIngredientCount   int             `json:"usedIngredientCount"`
	MissedIngredientCount int             `json:"missedIngredientCount"`
	UsedIngredients       []IngredientRef `json:"usedIngredients"`
	MissedIngredients     []IngredientRef `json:"missedIngredients"`
}

// NutritionInfo carries per-serving macros. Fields are pointers so values
// the upstream never reported serialize as null rather than zero.
type NutritionInfo struct {
	Calories      *float64 `json:"calories"`
	Fat           *float64 `json:"fat"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Protein       *float64 `json:"protein"`
}

// Ingredient is one normalized recipe ingredient.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// InstructionStep is one numbered cooking step. Length is in minutes.
type InstructionStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
	Length int    `json:"length"`
}

// Detail is the canonical normalized recipe record.
type Detail struct {
	ID                   int               `json:"id"`
	Title                string            `json:"title"`
	Image                string            `json:"image"`
	ReadyInMinutes       int               `json:"readyInMinutes"`
	PreparationMinutes   *int              `json:"preparationMinutes,omitempty"`
	CookingMinutes       *int              `json:"cookingMinutes,omitempty"`
	Nutrition            *NutritionInfo    `json:"nutrition,omitempty"`
	Ingredients          []Ingredient      `json:"ingredients"`
	Summary              string            `json:"summary"`
	AnalyzedInstructions []InstructionStep `json:"analyzedInstructions"`
}

// FetchFailure records one recipe whose detail fetch did not succeed.
type FetchFailure struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// DetailsStats aggregates the successfully fetched details.
type DetailsStats struct {
	AvgReadyMinutes      float64 `json:"avg_ready_minutes"`
	AvgCalories          float64 `json:"avg_calories"`
	AvgIngredientCount   float64 `json:"avg_ingredient_count"`
	RecipesWithNutrition int     `json:"recipes_with_nutrition"`
	QuickestTitle        string  `json:"quickest_title,omitempty"`
	QuickestMinutes      int     `json:"quickest_minutes,omitempty"`
	LowestCalTitle       string  `json:"lowest_cal_title,omitempty"`
	LowestCalories       float64 `json:"lowest_calories,omitempty"`
}

// DetailsResult is the outcome of the batch detail fetch.
type DetailsResult struct {
	Recipes  []Detail       `json:"recipes"`
	Failures []FetchFailure `json:"failures,omitempty"`
	Stats    DetailsStats   `json:"stats"`
}
