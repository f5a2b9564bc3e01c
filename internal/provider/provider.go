package provider

import (
	"context"
	"fmt"
)

// RecipeProvider handles recipe search against the remote recipe API.
// Both methods fail with a *ProviderError on any transport, status, or
// parse problem; timeouts are the provider's own responsibility.
type RecipeProvider interface {
	SearchByKeyword(ctx context.Context, text string, limit int) ([]RecipeData, error)
	SearchByIngredients(ctx context.Context, names []string, limit int) ([]RecipeData, error)
}

// ExtractionProvider extracts a structured recipe from raw page content.
type ExtractionProvider interface {
	ExtractRecipe(ctx context.Context, content string, sourceURL string) (*RecipeData, error)
}

// MaxSearchResults is the largest result count the remote provider accepts
// per request.
const MaxSearchResults = 100

// ProviderError wraps any failure talking to a remote provider. Quota is set
// when the provider signalled a rate/quota limit, which callers treat the
// same as any other provider failure.
type ProviderError struct {
	Op    string
	Quota bool
	Cause error
}

// Error returns the error message.
func (e *ProviderError) Error() string {
	if e.Quota {
		return fmt.Sprintf("%s: provider quota exceeded: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// RecipeData is the provider-neutral recipe shape returned by adapters.
// The service layer converts it into the persistence model.
type RecipeData struct {
	ID             string
	Title          string
	ImageURL       string
	ReadyInMinutes int
	Servings       int
	Ingredients    []IngredientData
	Instructions   []StepData
	Vegetarian     bool
	Vegan          bool
	GlutenFree     bool
	DairyFree      bool
	SourceURL      string
}

// IngredientData is a single ingredient in a provider result.
type IngredientData struct {
	OriginalText string
	Name         string
	Amount       float64
	Unit         string
}

// StepData is a single numbered instruction step in a provider result.
type StepData struct {
	Number int
	Text   string
}
