package recipe

import (
	"encoding/json"
	"strings"
)

// NormalizeDetail reconciles the several shapes the recipe information
// endpoint is known to return into one canonical Detail. It is a pure
// function and is idempotent over records that are already canonical.
func NormalizeDetail(raw map[string]any) Detail {
	d := Detail{
		ID:             asInt(raw["id"]),
		Title:          asString(raw["title"]),
		Image:          asString(raw["image"]),
		ReadyInMinutes: asInt(raw["readyInMinutes"]),
	}
	if d.Title == "" {
		d.Title = asString(raw["name"])
	}
	if v, ok := raw["preparationMinutes"]; ok && v != nil {
		n := asInt(v)
		d.PreparationMinutes = &n
	}
	if v, ok := raw["cookingMinutes"]; ok && v != nil {
		n := asInt(v)
		d.CookingMinutes = &n
	}
	d.Summary = asString(raw["summary"])
	d.Nutrition = normalizeNutrition(raw["nutrition"])
	d.Ingredients = normalizeIngredients(raw)
	d.AnalyzedInstructions = normalizeInstructions(raw["analyzedInstructions"])
	return d
}

// normalizeIngredients prefers the flat ingredients list, falling back to
// extendedIngredients when it is absent.
func normalizeIngredients(raw map[string]any) []Ingredient {
	src := asSlice(raw["ingredients"])
	if len(src) == 0 {
		src = asSlice(raw["extendedIngredients"])
	}

	result := make([]Ingredient, 0, len(src))
	for _, item := range src {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := firstString(entry, "name", "originalName", "original", "originalString", "nameClean")
		amount := asFloat(entry["amount"])
		unit := asString(entry["unit"])

		if measures, ok := entry["measures"].(map[string]any); ok {
			m, _ := measures["metric"].(map[string]any)
			if m == nil {
				m, _ = measures["us"].(map[string]any)
			}
			if m != nil {
				// The flat amount/unit stay as defaults when the measure
				// omits them.
				if _, ok := m["amount"]; ok {
					amount = asFloat(m["amount"])
				}
				if u := asString(m["unitShort"]); u != "" {
					unit = u
				} else if u := asString(m["unitLong"]); u != "" {
					unit = u
				}
			}
		}

		if name == "" {
			continue
		}
		result = append(result, Ingredient{Name: name, Amount: amount, Unit: unit})
	}
	return result
}

// normalizeNutrition handles the three nutrition shapes seen in the wild:
// direct {calories, protein, fat, carbs} keys, a nutrients array, and a
// last-resort direct field mapping.
func normalizeNutrition(raw any) *NutritionInfo {
	v, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	if hasAll(v, "calories", "protein", "fat", "carbs") {
		return &NutritionInfo{
			Calories:      asFloatPtr(v["calories"]),
			Protein:       asFloatPtr(v["protein"]),
			Fat:           asFloatPtr(v["fat"]),
			Carbohydrates: asFloatPtr(v["carbs"]),
		}
	}

	if nutrients, ok := v["nutrients"]; ok {
		info := &NutritionInfo{}
		for _, item := range asSlice(nutrients) {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := strings.ToLower(asString(entry["name"]))
			amount := asFloat(entry["amount"])
			switch {
			case strings.Contains(name, "calorie"):
				info.Calories = &amount
			case name == "fat" || name == "total fat":
				info.Fat = &amount
			case strings.Contains(name, "carbohydrate"):
				info.Carbohydrates = &amount
			case name == "protein":
				info.Protein = &amount
			}
		}
		return info
	}

	carbs := v["carbohydrates"]
	if carbs == nil {
		carbs = v["carbs"]
	}
	return &NutritionInfo{
		Calories:      asFloatPtr(v["calories"]),
		Protein:       asFloatPtr(v["protein"]),
		Fat:           asFloatPtr(v["fat"]),
		Carbohydrates: asFloatPtr(carbs),
	}
}

// normalizeInstructions flattens grouped {name, steps[]} instruction sets
// and accepts already-flat {step} entries. Steps with no text are dropped.
func normalizeInstructions(raw any) []InstructionStep {
	var all []InstructionStep
	for _, item := range asSlice(raw) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if steps, ok := entry["steps"]; ok {
			for _, s := range asSlice(steps) {
				step, ok := s.(map[string]any)
				if !ok {
					continue
				}
				text := asString(step["step"])
				if text == "" {
					continue
				}
				number := asInt(step["number"])
				if number == 0 {
					number = len(all) + 1
				}
				length := 0
				switch l := step["length"].(type) {
				case map[string]any:
					length = asInt(l["number"])
				default:
					length = asInt(step["length"])
				}
				all = append(all, InstructionStep{Number: number, Step: text, Length: length})
			}
			continue
		}

		if text := asString(entry["step"]); text != "" {
			number := asInt(entry["number"])
			if number == 0 {
				number = len(all) + 1
			}
			all = append(all, InstructionStep{Number: number, Step: text})
		}
	}
	if all == nil {
		all = []InstructionStep{}
	}
	return all
}

func hasAll(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat accepts float64, json.Number (the decoder runs with UseNumber)
// and int, returning 0 otherwise.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	case int:
		return float64(n)
	}
	return 0
}

func asFloatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f := asFloat(v)
	return &f
}

func asInt(v any) int {
	return int(asFloat(v))
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
