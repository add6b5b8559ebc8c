package recipe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fridge-chef/internal/core/ai"
	"fridge-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// formatPrompt asks the model for a comma-separated search query built from
// the raw extracted list.
const formatPrompt = `Convert the list of extracted ingredients into recipe search parameters.

RULES:
1. Focus on main cooking ingredients (meats, vegetables, dairy, grains)
2. Include condiments only if they're commonly used in recipes (e.g., soy sauce, honey)
3. Exclude beverages unless they're cooking ingredients (e.g., wine, coconut milk)
4. Format as comma-separated string
5. Use common recipe-friendly names (e.g., "bell pepper" not "red bell pepper")
6. Limit to 10-15 most versatile ingredients to get better recipe matches

Respond with ONLY the comma-separated ingredient list, nothing else.

Ingredients: %s`

// beverageMarkers name entries the fallback formatter drops outright.
var beverageMarkers = []string{"water", "ice", "soda", "beer", "wine bottle"}

// adjectivePattern matches descriptors that hurt recipe search matching.
var adjectivePattern = regexp.MustCompile(`(?i)\b(fresh|organic|whole|sliced|chopped)\b`)

// Formatter turns an extracted ingredient list into a search query.
type Formatter struct {
	ai *ai.Service
}

// NewFormatter creates a query formatter.
func NewFormatter(svc *ai.Service) *Formatter {
	return &Formatter{ai: svc}
}

// Format produces the canonical comma-separated search query. The model does
// the formatting; when it fails, a deterministic fallback keeps the pipeline
// moving.
func (f *Formatter) Format(ctx context.Context, ingredients []string) (string, error) {
	if len(ingredients) == 0 {
		return "", common.NewPipelineError(common.ErrCodeNoInput,
			"No ingredients found. Please analyze a fridge image first.", nil)
	}

	prompt := fmt.Sprintf(formatPrompt, strings.Join(ingredients, ", "))
	content, err := f.ai.ProcessRequest(ctx, prompt, "")
	if err == nil {
		if formatted := parseFormatted(content); formatted != "" {
			common.LogInfo("formatted ingredients",
				zap.Int("input_count", len(ingredients)),
				zap.Int("formatted_count", len(strings.Split(formatted, ","))),
			)
			return formatted, nil
		}
	}
	if err != nil {
		common.LogWarn("formatter model call failed, using fallback", zap.Error(err))
	}

	formatted := fallbackFormat(ingredients)
	if formatted == "" {
		return "", common.NewPipelineError(common.ErrCodeFormatting,
			"Could not format ingredients for recipe search. Please try with different ingredients.", err)
	}
	return formatted, nil
}

// parseFormatted accepts either the bare comma-separated line or a JSON
// object carrying it under "ingredients".
func parseFormatted(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	if obj := common.ExtractJSONObject(content); obj != "" {
		var parsed struct {
			Ingredients string `json:"ingredients"`
		}
		if err := common.ParseJSON(obj, &parsed); err == nil {
			// A JSON reply stands or falls on its "ingredients" value.
			// Raw JSON text must never leak through as the query.
			return strings.TrimSpace(parsed.Ingredients)
		}
	}

	// Take the first non-empty line; models occasionally add a trailing note.
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// fallbackFormat is the deterministic formatter: drop beverages, strip
// descriptor adjectives, keep the first 15 survivors in order.
func fallbackFormat(ingredients []string) string {
	var selected []string
	for _, ing := range ingredients {
		lower := strings.ToLower(ing)
		skip := false
		for _, marker := range beverageMarkers {
			if strings.Contains(lower, marker) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		clean := adjectivePattern.ReplaceAllString(ing, "")
		clean = strings.Join(strings.Fields(clean), " ")
		if clean != "" {
			selected = append(selected, clean)
		}
		if len(selected) == 15 {
			break
		}
	}
	return strings.Join(selected, ",")
}
