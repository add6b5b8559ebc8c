package recipe

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"fridge-chef/internal/core/ai"
	"fridge-chef/internal/core/ai/image"
	"fridge-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// visionPrompt instructs the model to emit one item per line with no
// surrounding structure, which keeps the line cleanup below simple.
const visionPrompt = `Analyze this refrigerator image and list EVERY SINGLE visible item.

IMPORTANT: Just list the items, one per line. No headers, no sections, no explanations.
Don't say "Top shelf" or "Middle shelf" - just list the actual food items.

Be SPECIFIC with names:
- Include brand names when visible (e.g., "Heinz ketchup" not just "ketchup")
- Be specific about types (e.g., "whole milk" not just "milk")
- Name specific fruits/vegetables (e.g., "red bell pepper" not just "pepper")

List EVERYTHING you can see:
- Every condiment
- Every dairy product
- Every fruit (individually)
- Every vegetable (individually)
- Every beverage
- Every jar, container, package
- Every other food item

Format: Just the item name, one per line. Nothing else.`

// skipMarkers flag lines the model emits around the list rather than items
// in it.
var skipMarkers = []string{
	"shelf", "compartment", "drawer", "left to right",
	"here's", "list of", "organized by", "please note",
	"assuming", ":**", "various fruits...", "...", "i can see",
}

// Extractor turns a fridge photo into a list of ingredient names.
type Extractor struct {
	ai        *ai.Service
	processor *image.Processor
}

// NewExtractor creates an ingredient extractor.
func NewExtractor(svc *ai.Service, processor *image.Processor) *Extractor {
	return &Extractor{ai: svc, processor: processor}
}

// Extract decodes the image payload, asks the vision model for its contents
// and returns the cleaned ingredient list with a user-facing summary.
// original is the payload as first received; it is retried when the working
// copy fails to decode.
func (e *Extractor) Extract(ctx context.Context, imageBase64 string, original string) ([]string, string, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return nil, "", common.NewPipelineError(common.ErrCodeNoInput,
			"No image provided. Please upload a fridge image.", nil)
	}

	payload := image.StripDataURL(imageBase64)
	_, err := e.processor.Decode(imageBase64)
	if err != nil && original != "" && original != imageBase64 {
		common.LogWarn("image decode failed, retrying with original payload", zap.Error(err))
		payload = image.StripDataURL(original)
		_, err = e.processor.Decode(original)
	}
	if err != nil {
		return nil, "", common.NewPipelineError(common.ErrCodeDecode,
			"The image could not be decoded. Please upload it again.", err)
	}

	content, err := e.ai.ProcessRequest(ctx, visionPrompt, payload)
	if err != nil {
		return nil, "", err
	}

	ingredients := cleanIngredientLines(content)
	common.LogInfo("extracted ingredients", zap.Int("count", len(ingredients)))

	return ingredients, extractionSummary(ingredients), nil
}

// cleanIngredientLines strips the model's formatting down to bare item names.
func cleanIngredientLines(content string) []string {
	var result []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		skip := false
		for _, marker := range skipMarkers {
			if strings.Contains(lower, marker) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		// Leading enumeration: digits, dashes, bullets, asterisks, dots.
		cleaned := strings.TrimLeft(line, "0123456789-•*. \t")
		cleaned = strings.TrimRight(cleaned, "*:")

		if len(cleaned) > 2 && hasLetter(cleaned) {
			result = append(result, cleaned)
		}
	}
	return result
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// extractionSummary phrases the result for the chat stream.
func extractionSummary(ingredients []string) string {
	switch {
	case len(ingredients) == 0:
		return "I couldn't identify any ingredients in the image. Please make sure the image clearly shows the contents of your fridge."
	case len(ingredients) <= 10:
		return fmt.Sprintf("Found %d items in your fridge: %s", len(ingredients), strings.Join(ingredients, ", "))
	default:
		return fmt.Sprintf("Found %d items in your fridge: %s... and %d more items",
			len(ingredients), strings.Join(ingredients[:10], ", "), len(ingredients)-10)
	}
}
