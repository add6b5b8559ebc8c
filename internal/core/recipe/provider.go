package recipe

import "context"

// Provider bundles recipe search and the batch detail fetch behind one
// request-scoped value.
type Provider struct {
	client  *SpoonacularClient
	details *DetailsFetcher
}

// NewProvider creates a recipe provider backed by the Spoonacular client.
func NewProvider(client *SpoonacularClient) *Provider {
	return &Provider{
		client:  client,
		details: NewDetailsFetcher(client),
	}
}

// Search runs the ingredient-based recipe search with the default tuning:
// up to 15 results, ranked to minimize missing ingredients.
func (p *Provider) Search(ctx context.Context, ingredients string) ([]Stub, error) {
	return p.client.FindByIngredients(ctx, ingredients, 15, 2)
}

// Details fetches and normalizes full details for every stub.
func (p *Provider) Details(ctx context.Context, stubs []Stub) (*DetailsResult, error) {
	return p.details.FetchAll(ctx, stubs, 0)
}
