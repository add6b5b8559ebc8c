package recipe

import (
	"context"
	"sort"

	"fridge-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// InformationFetcher fetches the raw detail record for one recipe.
// Satisfied by *SpoonacularClient.
type InformationFetcher interface {
	GetInformation(ctx context.Context, id int) (map[string]any, error)
}

// DetailsFetcher runs the batch detail fetch for a search result set.
type DetailsFetcher struct {
	fetcher InformationFetcher
}

// NewDetailsFetcher creates a batch detail fetcher.
func NewDetailsFetcher(fetcher InformationFetcher) *DetailsFetcher {
	return &DetailsFetcher{fetcher: fetcher}
}

// FetchAll fetches details for every stub sequentially. A failing recipe is
// recorded and skipped, never aborting the batch. maxRecipes <= 0 means no
// cap. Results come back sorted by the originating stub's used-ingredient
// count, best matches first.
func (d *DetailsFetcher) FetchAll(ctx context.Context, stubs []Stub, maxRecipes int) (*DetailsResult, error) {
	if len(stubs) == 0 {
		return nil, common.NewPipelineError(common.ErrCodeNoInput,
			"No recipes found. Please search for recipes first.", nil)
	}

	toFetch := stubs
	if maxRecipes > 0 && maxRecipes < len(toFetch) {
		toFetch = toFetch[:maxRecipes]
	}

	result := &DetailsResult{Recipes: make([]Detail, 0, len(toFetch))}
	for _, stub := range toFetch {
		raw, err := d.fetcher.GetInformation(ctx, stub.ID)
		if err != nil {
			common.LogError("failed to fetch recipe details",
				zap.Int("recipe_id", stub.ID),
				zap.String("title", stub.Title),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, FetchFailure{
				ID:    stub.ID,
				Title: stub.Title,
				Error: err.Error(),
			})
			continue
		}
		result.Recipes = append(result.Recipes, NormalizeDetail(raw))
	}

	// Best matches first, ranked by the full original search result set.
	// Ids missing from it rank as zero.
	usedCount := make(map[int]int, len(stubs))
	for _, stub := range stubs {
		usedCount[stub.ID] = stub.UsedIngredientCount
	}
	sort.SliceStable(result.Recipes, func(i, j int) bool {
		return usedCount[result.Recipes[i].ID] > usedCount[result.Recipes[j].ID]
	})

	result.Stats = computeStats(result.Recipes)

	common.LogInfo("recipe details fetched",
		zap.Int("requested", len(toFetch)),
		zap.Int("succeeded", len(result.Recipes)),
		zap.Int("failed", len(result.Failures)),
	)
	return result, nil
}

func computeStats(recipes []Detail) DetailsStats {
	var stats DetailsStats
	if len(recipes) == 0 {
		return stats
	}

	var totalMinutes, totalIngredients int
	var totalCalories float64
	quickest := recipes[0]
	var lowestCal *Detail

	for i := range recipes {
		r := &recipes[i]
		totalMinutes += r.ReadyInMinutes
		totalIngredients += len(r.Ingredients)
		if r.ReadyInMinutes < quickest.ReadyInMinutes {
			quickest = *r
		}
		if r.Nutrition != nil && r.Nutrition.Calories != nil {
			stats.RecipesWithNutrition++
			totalCalories += *r.Nutrition.Calories
			if lowestCal == nil || *r.Nutrition.Calories < *lowestCal.Nutrition.Calories {
				lowestCal = r
			}
		}
	}

	stats.AvgReadyMinutes = float64(totalMinutes) / float64(len(recipes))
	stats.AvgIngredientCount = float64(totalIngredients) / float64(len(recipes))
	if stats.RecipesWithNutrition > 0 {
		stats.AvgCalories = totalCalories / float64(stats.RecipesWithNutrition)
	}
	stats.QuickestTitle = quickest.Title
	stats.QuickestMinutes = quickest.ReadyInMinutes
	if lowestCal != nil {
		stats.LowestCalTitle = lowestCal.Title
		stats.LowestCalories = *lowestCal.Nutrition.Calories
	}
	return stats
}
