package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultSpoonacularBaseURL = "https://api.spoonacular.com"

// SpoonacularProvider implements RecipeProvider against the Spoonacular
// complexSearch API.
type SpoonacularProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSpoonacularProvider creates a Spoonacular-backed recipe provider.
// baseURL may be empty, in which case the public API endpoint is used.
func NewSpoonacularProvider(apiKey, baseURL string) *SpoonacularProvider {
	if baseURL == "" {
		baseURL = defaultSpoonacularBaseURL
	}
	return &SpoonacularProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SearchByKeyword searches recipes matching a free-text query.
func (p *SpoonacularProvider) SearchByKeyword(ctx context.Context, text string, limit int) ([]RecipeData, error) {
	params := p.baseParams(limit)
	params.Set("query", text)
	return p.complexSearch(ctx, "SearchByKeyword", params)
}

// SearchByIngredients searches recipes using any of the given ingredient names.
func (p *SpoonacularProvider) SearchByIngredients(ctx context.Context, names []string, limit int) ([]RecipeData, error) {
	params := p.baseParams(limit)
	params.Set("includeIngredients", strings.Join(names, ","))
	return p.complexSearch(ctx, "SearchByIngredients", params)
}

func (p *SpoonacularProvider) baseParams(limit int) url.Values {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	params := url.Values{}
	params.Set("apiKey", p.apiKey)
	params.Set("number", fmt.Sprintf("%d", limit))
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")
	return params
}

// --- complexSearch response shapes ---

type complexSearchResponse struct {
	Results []spoonacularRecipe `json:"results"`
}

type spoonacularRecipe struct {
	ID                   int                       `json:"id"`
	Title                string                    `json:"title"`
	Image                string                    `json:"image"`
	ReadyInMinutes       int                       `json:"readyInMinutes"`
	Servings             int                       `json:"servings"`
	Vegetarian           bool                      `json:"vegetarian"`
	Vegan                bool                      `json:"vegan"`
	GlutenFree           bool                      `json:"glutenFree"`
	DairyFree            bool                      `json:"dairyFree"`
	SourceURL            string                    `json:"sourceUrl"`
	ExtendedIngredients  []spoonacularIngredient   `json:"extendedIngredients"`
	AnalyzedInstructions []spoonacularInstructions `json:"analyzedInstructions"`
}

type spoonacularIngredient struct {
	Original string  `json:"original"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

type spoonacularInstructions struct {
	Name  string            `json:"name"`
	Steps []spoonacularStep `json:"steps"`
}

type spoonacularStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

func (p *SpoonacularProvider) complexSearch(ctx context.Context, op string, params url.Values) ([]RecipeData, error) {
	reqURL := fmt.Sprintf("%s/recipes/complexSearch?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProviderError{Op: op, Cause: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Op: op, Cause: err}
	}

	// 402 = daily points exhausted, 429 = rate limited
	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ProviderError{Op: op, Quota: true, Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Op: op, Cause: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var sResp complexSearchResponse
	if err := json.Unmarshal(body, &sResp); err != nil {
		return nil, &ProviderError{Op: op, Cause: fmt.Errorf("failed to parse response: %w", err)}
	}

	results := make([]RecipeData, 0, len(sResp.Results))
	for _, r := range sResp.Results {
		results = append(results, toRecipeData(r))
	}
	return results, nil
}

// toRecipeData converts a raw Spoonacular recipe into the provider-neutral
// shape, prefixing the numeric ID with the provider namespace.
func toRecipeData(r spoonacularRecipe) RecipeData {
	ingredients := make([]IngredientData, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		ingredients = append(ingredients, IngredientData{
			OriginalText: ing.Original,
			Name:         ing.Name,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
		})
	}

	// Spoonacular restarts step numbers for each named instruction block, so
	// steps are renumbered into one ascending sequence.
	var steps []StepData
	for _, block := range r.AnalyzedInstructions {
		for _, s := range block.Steps {
			steps = append(steps, StepData{Number: len(steps) + 1, Text: s.Step})
		}
	}

	return RecipeData{
		ID:             fmt.Sprintf("sp-%d", r.ID),
		Title:          r.Title,
		ImageURL:       r.Image,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		Ingredients:    ingredients,
		Instructions:   steps,
		Vegetarian:     r.Vegetarian,
		Vegan:          r.Vegan,
		GlutenFree:     r.GlutenFree,
		DairyFree:      r.DairyFree,
		SourceURL:      r.SourceURL,
	}
}
