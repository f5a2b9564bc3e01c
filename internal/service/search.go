package service

import (
	"context"
	"strings"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/logger"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/provider"
	"github.com/crumbapp/crumb-api/internal/repository"
	"go.uber.org/zap"
)

// Provenance tags where a search result set came from: the live remote
// provider, the local cache fallback, or nowhere.
type Provenance string

// Provenance values.
const (
	ProvenanceLive   Provenance = "live"
	ProvenanceCached Provenance = "cached"
	ProvenanceEmpty  Provenance = "empty"
)

// DefaultSearchLimit is the result count used when the caller doesn't ask
// for one.
const DefaultSearchLimit = 20

const (
	msgNoResults     = "No recipes found. Try a different search term."
	msgCachedResults = "Showing cached results"
	msgSearchFailed  = "Search is temporarily unavailable. Please try again."
)

// SearchQuery is either a free-text keyword or an ordered list of ingredient
// names. Keyword takes precedence when both are set.
type SearchQuery struct {
	Keyword     string
	Ingredients []string
}

// SearchResult is the outcome of a search call. Recipes keep the relevance
// order of their source; Provenance tells the UI whether to show an
// offline/cached indicator.
type SearchResult struct {
	Recipes    []models.Recipe `json:"recipes"`
	Provenance Provenance      `json:"provenance"`
	Message    string          `json:"message,omitempty"`
}

// SearchService coordinates the remote recipe provider with the local cache:
// remote first, write results through to the cache without blocking the
// response, fall back to the cache when the provider fails.
type SearchService struct {
	Cfg      *config.Config
	Provider provider.RecipeProvider
	Repo     repository.RecipeRepo
}

// NewSearchService creates a new SearchService.
func NewSearchService(cfg *config.Config, recipeProvider provider.RecipeProvider, repo repository.RecipeRepo) *SearchService {
	return &SearchService{
		Cfg:      cfg,
		Provider: recipeProvider,
		Repo:     repo,
	}
}

// Search resolves a query against the remote provider, falling back to the
// local cache on provider failure. It returns an error only for an invalid
// query; every provider or store failure is folded into the SearchResult.
// The remote call is never retried within a single Search.
func (s *SearchService) Search(ctx context.Context, query SearchQuery, limit int) (*SearchResult, error) {
	query = normalizeQuery(query)
	if query.Keyword == "" && len(query.Ingredients) == 0 {
		return nil, NewValidationError("search query must not be empty")
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > provider.MaxSearchResults {
		limit = provider.MaxSearchResults
	}

	remote, err := s.searchRemote(ctx, query, limit)
	if err == nil {
		recipes := make([]models.Recipe, len(remote))
		for i, rd := range remote {
			recipes[i] = recipeDataToModel(rd)
		}
		// An empty live result is not an error; it means "no matches".
		s.writeThrough(recipes)
		return &SearchResult{Recipes: recipes, Provenance: ProvenanceLive}, nil
	}

	logger.Get().Warn("remote recipe search failed, falling back to cache",
		zap.String("keyword", query.Keyword),
		zap.Strings("ingredients", query.Ingredients),
		zap.Error(err),
	)

	return s.searchCached(query, limit), nil
}

// normalizeQuery trims the keyword and drops empty ingredient entries.
func normalizeQuery(query SearchQuery) SearchQuery {
	query.Keyword = strings.TrimSpace(query.Keyword)

	cleaned := make([]string, 0, len(query.Ingredients))
	for _, name := range query.Ingredients {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	query.Ingredients = cleaned

	return query
}

func (s *SearchService) searchRemote(ctx context.Context, query SearchQuery, limit int) ([]provider.RecipeData, error) {
	if query.Keyword != "" {
		return s.Provider.SearchByKeyword(ctx, query.Keyword, limit)
	}
	return s.Provider.SearchByIngredients(ctx, query.Ingredients, limit)
}

// writeThrough persists live results to the cache on a detached goroutine.
// The batch is copied first and the upsert runs off the request context, so
// the caller gets its response immediately and cancelling the request cannot
// truncate the write. Failures are logged and swallowed.
func (s *SearchService) writeThrough(recipes []models.Recipe) {
	if len(recipes) == 0 {
		return
	}

	batch := make([]models.Recipe, len(recipes))
	copy(batch, recipes)

	go func() {
		if err := s.Repo.UpsertMany(batch); err != nil {
			logger.Get().Warn("failed to write recipes through to cache",
				zap.Int("count", len(batch)),
				zap.Error(err),
			)
		}
	}()
}

// searchCached serves the fallback read. Store errors degrade to an empty
// result with a generic message; nothing is raised to the caller.
func (s *SearchService) searchCached(query SearchQuery, limit int) *SearchResult {
	var recipes []models.Recipe
	var err error

	if query.Keyword != "" {
		recipes, err = s.Repo.FindByTitleSubstring(query.Keyword, limit)
	} else {
		recipes, err = s.Repo.FindByIngredients(query.Ingredients, limit)
	}
	if err != nil {
		logger.Get().Error("cache fallback read failed", zap.Error(err))
		return &SearchResult{Recipes: []models.Recipe{}, Provenance: ProvenanceEmpty, Message: msgSearchFailed}
	}

	if len(recipes) == 0 {
		return &SearchResult{Recipes: []models.Recipe{}, Provenance: ProvenanceEmpty, Message: msgNoResults}
	}

	return &SearchResult{Recipes: recipes, Provenance: ProvenanceCached, Message: msgCachedResults}
}

// recipeDataToModel converts a provider result into the persistence model.
func recipeDataToModel(rd provider.RecipeData) models.Recipe {
	ingredients := make(models.Ingredients, len(rd.Ingredients))
	for i, ing := range rd.Ingredients {
		ingredients[i] = models.Ingredient{
			OriginalText: ing.OriginalText,
			Name:         ing.Name,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
		}
	}

	instructions := make(models.Instructions, len(rd.Instructions))
	for i, step := range rd.Instructions {
		instructions[i] = models.InstructionStep{Number: step.Number, Text: step.Text}
	}

	recipe := models.Recipe{
		ID:             rd.ID,
		Title:          rd.Title,
		ImageURL:       rd.ImageURL,
		ReadyInMinutes: rd.ReadyInMinutes,
		Servings:       rd.Servings,
		Ingredients:    ingredients,
		Instructions:   instructions,
		Vegetarian:     rd.Vegetarian,
		Vegan:          rd.Vegan,
		GlutenFree:     rd.GlutenFree,
		DairyFree:      rd.DairyFree,
		SourceURL:      rd.SourceURL,
		Source:         models.SourceProvider,
	}
	recipe.RefreshIngredientText()

	return recipe
}
