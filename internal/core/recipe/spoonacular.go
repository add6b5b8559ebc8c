package recipe

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SpoonacularClient talks to the Spoonacular recipe API.
type SpoonacularClient struct {
	config *config.Config
	client *resty.Client
}

// NewSpoonacularClient creates a Spoonacular API client.
func NewSpoonacularClient(cfg *config.Config) *SpoonacularClient {
	client := resty.New().
		SetBaseURL(cfg.Spoonacular.BaseURL).
		SetTimeout(cfg.Spoonacular.Timeout)

	return &SpoonacularClient{
		config: cfg,
		client: client,
	}
}

// FindByIngredients searches recipes by a comma-separated ingredient list.
// ranking 1 maximizes used ingredients, 2 minimizes missing ones. Pantry
// staples are always ignored.
func (c *SpoonacularClient) FindByIngredients(ctx context.Context, ingredients string, number int, ranking int) ([]Stub, error) {
	if c.config.Spoonacular.APIKey == "" {
		return nil, common.NewPipelineError(common.ErrCodeConfig,
			"Recipe search is not configured. Please check that the recipe API key is properly set.", nil)
	}
	if strings.TrimSpace(ingredients) == "" {
		return nil, common.NewPipelineError(common.ErrCodeMissingInput,
			"No ingredients to search with. Please try another photo.", nil)
	}
	if number <= 0 {
		number = 15
	}
	if ranking != 1 {
		ranking = 2
	}

	common.LogDebug("searching recipes",
		zap.String("ingredients", ingredients),
		zap.Int("number", number),
		zap.Int("ranking", ranking),
	)

	var stubs []Stub
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ingredients":  ingredients,
			"number":       strconv.Itoa(number),
			"ranking":      strconv.Itoa(ranking),
			"ignorePantry": "true",
			"apiKey":       c.config.Spoonacular.APIKey,
		}).
		SetResult(&stubs).
		Get("/recipes/findByIngredients")

	if err != nil {
		return nil, common.NewPipelineError(common.ErrCodeUpstream,
			fmt.Sprintf("Failed to reach the recipe API: %s", err.Error()), err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return stubs, nil
}

// GetInformation fetches full details for one recipe, nutrition included.
// The response is returned as a raw map so the caller can reconcile the
// upstream's shape variants.
func (c *SpoonacularClient) GetInformation(ctx context.Context, id int) (map[string]any, error) {
	if c.config.Spoonacular.APIKey == "" {
		return nil, common.NewPipelineError(common.ErrCodeConfig,
			"Recipe search is not configured. Please check that the recipe API key is properly set.", nil)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"includeNutrition": "true",
			"apiKey":           c.config.Spoonacular.APIKey,
		}).
		Get(fmt.Sprintf("/recipes/%d/information", id))

	if err != nil {
		return nil, common.NewPipelineError(common.ErrCodeUpstream,
			fmt.Sprintf("Failed to reach the recipe API: %s", err.Error()), err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := common.ParseJSONBytes(resp.Body(), &raw); err != nil {
		return nil, common.NewPipelineError(common.ErrCodeUpstream,
			"The recipe API returned a response that could not be parsed.", err)
	}
	return raw, nil
}

func (c *SpoonacularClient) checkStatus(resp *resty.Response) error {
	switch {
	case resp.StatusCode() >= 200 && resp.StatusCode() < 300:
		return nil
	case resp.StatusCode() == http.StatusUnauthorized:
		return common.NewPipelineError(common.ErrCodeUpstreamAuth,
			"Recipe search is not configured. Please check that the recipe API key is properly set.",
			fmt.Errorf("recipe API returned status %d", resp.StatusCode()))
	case resp.StatusCode() == http.StatusPaymentRequired:
		return common.NewPipelineError(common.ErrCodeUpstreamQuota,
			"The recipe search quota has been exhausted. Please try again later.",
			fmt.Errorf("recipe API returned status %d", resp.StatusCode()))
	default:
		return common.NewPipelineError(common.ErrCodeUpstream,
			fmt.Sprintf("The recipe API returned an error (status %d).", resp.StatusCode()),
			fmt.Errorf("recipe API error: %s", truncateBody(resp.String())))
	}
}

func truncateBody(body string) string {
	if len(body) > 500 {
		return body[:500]
	}
	return body
}
