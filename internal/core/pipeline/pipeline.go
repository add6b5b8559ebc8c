package pipeline

import (
	"context"
	"fmt"
	"strings"

	"fridge-chef/internal/core/recipe"
	"fridge-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// VisionExtractor turns an image payload into an ingredient list.
type VisionExtractor interface {
	Extract(ctx context.Context, imageBase64 string, original string) ([]string, string, error)
}

// QueryFormatter turns an ingredient list into a search query.
type QueryFormatter interface {
	Format(ctx context.Context, ingredients []string) (string, error)
}

// RecipeProvider covers recipe search and the batch detail fetch.
type RecipeProvider interface {
	Search(ctx context.Context, ingredients string) ([]recipe.Stub, error)
	Details(ctx context.Context, stubs []recipe.Stub) (*recipe.DetailsResult, error)
}

// EmitFunc receives each event as the pipeline produces it.
type EmitFunc func(Event)

// Pipeline is the linear image-to-recipes workflow.
type Pipeline struct {
	extractor VisionExtractor
	formatter QueryFormatter
	provider  RecipeProvider
}

// New creates a pipeline over the given collaborators.
func New(extractor VisionExtractor, formatter QueryFormatter, provider RecipeProvider) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		formatter: formatter,
		provider:  provider,
	}
}

// Run walks the four steps in order, emitting step_update before and
// step_complete after each one. A step producing no usable output ends the
// run with a terminal error event naming that step; downstream steps never
// start. Panics are turned into an error event attributed to the first
// incomplete step.
func (p *Pipeline) Run(ctx context.Context, imageBase64 string, emit EmitFunc) {
	state := NewState()

	defer func() {
		if r := recover(); r != nil {
			failed := state.firstIncomplete()
			common.LogError("pipeline panic",
				zap.String("step", failed),
				zap.Any("panic", r),
			)
			msg := fmt.Sprintf("%v", r)
			emit(Event{
				Type: EventError,
				Step: &StepInfo{
					StepName: failed,
					Status:   StatusError,
					Message:  fmt.Sprintf("Error during %s: %s", strings.ToLower(failed), msg),
				},
				Error:       msg,
				Message:     fmt.Sprintf("I encountered an error while processing your request: %s", msg),
				StepSummary: state.StepSummary(),
			})
		}
	}()

	// Step 1: extract ingredients from the image.
	emit(stepUpdate(StepExtract, "Analyzing fridge contents..."))

	ingredients, _, err := p.extractor.Extract(ctx, imageBase64, imageBase64)
	if err != nil {
		p.fail(emit, state, StepExtract, err)
		return
	}
	if len(ingredients) == 0 {
		emit(stepError(state, StepExtract,
			"No ingredients could be extracted from the image. Please ensure the image shows the contents of a fridge clearly."))
		return
	}
	state.Ingredients = ingredients
	state.complete(StepExtract, ingredients)
	emit(stepComplete(StepExtract,
		fmt.Sprintf("Found %d ingredients", len(ingredients)),
		map[string]any{"ingredients": ingredients}))

	// Step 2: format them into a search query.
	emit(stepUpdate(StepFormat, "Formatting ingredients for recipe search..."))

	query, err := p.formatter.Format(ctx, ingredients)
	if err != nil {
		p.fail(emit, state, StepFormat, err)
		return
	}
	if query == "" {
		emit(stepError(state, StepFormat, "Failed to format ingredients for recipe search"))
		return
	}
	state.Query = query
	state.complete(StepFormat, query)
	emit(stepComplete(StepFormat,
		"Ingredients formatted successfully",
		map[string]any{"formatted": query}))

	// Step 3: search recipes.
	emit(stepUpdate(StepSearch, "Searching for recipes..."))

	stubs, err := p.provider.Search(ctx, query)
	if err != nil {
		p.fail(emit, state, StepSearch, err)
		return
	}
	if len(stubs) == 0 {
		emit(stepError(state, StepSearch, "No recipes found with the available ingredients"))
		return
	}
	state.Stubs = stubs
	state.complete(StepSearch, len(stubs))

	previews := make([]StubPreview, 0, 5)
	for _, s := range stubs {
		if len(previews) == 5 {
			break
		}
		previews = append(previews, StubPreview{
			ID:                    s.ID,
			Title:                 s.Title,
			UsedIngredientCount:   s.UsedIngredientCount,
			MissedIngredientCount: s.MissedIngredientCount,
		})
	}
	emit(stepComplete(StepSearch,
		fmt.Sprintf("Found %d recipes", len(stubs)),
		map[string]any{
			"recipe_count":    len(stubs),
			"recipe_previews": previews,
		}))

	// Step 4: fetch details for everything found.
	emit(stepUpdate(StepDetails,
		fmt.Sprintf("Fetching detailed information for %d recipes...", len(stubs))))

	details, err := p.provider.Details(ctx, stubs)
	if err != nil {
		p.fail(emit, state, StepDetails, err)
		return
	}
	state.Details = details
	state.complete(StepDetails, len(details.Recipes))
	emit(stepComplete(StepDetails,
		fmt.Sprintf("Retrieved details for %d recipes", len(details.Recipes)),
		map[string]any{
			"details_count": len(details.Recipes),
			"stats":         details.Stats,
		}))

	summaries := buildSummaries(details.Recipes, stubs)

	finalMessage := "I found some great recipes based on what's in your fridge!"
	if len(summaries) > 0 {
		finalMessage = fmt.Sprintf(
			"I found %d delicious recipes you can make with your ingredients! Swipe through the recipes below to find something you'd like to cook.",
			len(summaries))
	}

	emit(Event{
		Type:    EventComplete,
		Message: finalMessage,
		Summary: map[string]any{
			"total_ingredients": len(ingredients),
			"total_recipes":     len(summaries),
			"recipes":           summaries,
		},
		StepSummary: state.StepSummary(),
	})
}

// fail emits a terminal error event for a step that returned an error.
func (p *Pipeline) fail(emit EmitFunc, state *State, step string, err error) {
	common.LogError("pipeline step failed", zap.String("step", step), zap.Error(err))
	msg := common.UserMessage(err, fmt.Sprintf("Error during %s: %s", strings.ToLower(step), err.Error()))
	emit(Event{
		Type: EventError,
		Step: &StepInfo{
			StepName: step,
			Status:   StatusError,
			Message:  msg,
		},
		Error:       err.Error(),
		Message:     msg,
		StepSummary: state.StepSummary(),
	})
}

func stepUpdate(step, message string) Event {
	return Event{
		Type: EventStepUpdate,
		Step: &StepInfo{StepName: step, Status: StatusInProgress, Message: message},
	}
}

func stepComplete(step, message string, data map[string]any) Event {
	return Event{
		Type: EventStepComplete,
		Step: &StepInfo{StepName: step, Status: StatusCompleted, Message: message},
		Data: data,
	}
}

func stepError(state *State, step, message string) Event {
	return Event{
		Type:        EventError,
		Step:        &StepInfo{StepName: step, Status: StatusError, Message: message},
		StepSummary: state.StepSummary(),
	}
}

// buildSummaries joins each normalized detail with the match info from its
// originating search stub.
func buildSummaries(details []recipe.Detail, stubs []recipe.Stub) []RecipeSummary {
	byID := make(map[int]recipe.Stub, len(stubs))
	for _, s := range stubs {
		byID[s.ID] = s
	}

	summaries := make([]RecipeSummary, 0, len(details))
	for _, d := range details {
		summary := RecipeSummary{Detail: d}
		if stub, ok := byID[d.ID]; ok {
			summary.UsedIngredientCount = stub.UsedIngredientCount
			summary.MissedIngredientCount = stub.MissedIngredientCount
			summary.UsedIngredients = ingredientNames(stub.UsedIngredients)
			summary.MissedIngredients = ingredientNames(stub.MissedIngredients)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func ingredientNames(refs []recipe.IngredientRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}
