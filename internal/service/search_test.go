package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/provider"
	"github.com/crumbapp/crumb-api/internal/testutil"
)

func newTestSearchService(p *testutil.MockRecipeProvider, repo *testutil.MockRecipeRepo) *SearchService {
	return &SearchService{
		Cfg:      &config.Config{},
		Provider: p,
		Repo:     repo,
	}
}

func waitForUpsert(t *testing.T, repo *testutil.MockRecipeRepo) {
	t.Helper()
	select {
	case <-repo.Upserted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cache write-through")
	}
}

func TestSearch_LiveResultsKeepProviderOrder(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return []provider.RecipeData{
				testutil.TestRecipeData("sp-3", "Pasta Carbonara"),
				testutil.TestRecipeData("sp-1", "Pasta Primavera"),
				testutil.TestRecipeData("sp-2", "Pasta Arrabbiata"),
			}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "pasta"}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceLive {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceLive)
	}
	if result.Message != "" {
		t.Errorf("message = %q, want empty", result.Message)
	}

	wantIDs := []string{"sp-3", "sp-1", "sp-2"}
	if len(result.Recipes) != len(wantIDs) {
		t.Fatalf("got %d recipes, want %d", len(result.Recipes), len(wantIDs))
	}
	for i, id := range wantIDs {
		if result.Recipes[i].ID != id {
			t.Errorf("recipes[%d].ID = %q, want %q", i, result.Recipes[i].ID, id)
		}
	}
	for _, r := range result.Recipes {
		if r.Source != models.SourceProvider {
			t.Errorf("recipe %s source = %q, want %q", r.ID, r.Source, models.SourceProvider)
		}
	}

	waitForUpsert(t, repo)
	if repo.Count() != 3 {
		t.Errorf("cached recipes = %d, want 3", repo.Count())
	}
}

func TestSearch_ProviderFailureFallsBackToCache(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	now := time.Now()
	older := testutil.TestCachedRecipe("sp-10", "Pizza Margherita", now.Add(-time.Hour))
	newer := testutil.TestCachedRecipe("sp-11", "Pizza Bianca", now)
	repo.Recipes[older.ID] = &older
	repo.Recipes[newer.ID] = &newer

	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return nil, &provider.ProviderError{Op: "SearchByKeyword", Quota: true, Cause: errors.New("402")}
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "pizza"}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceCached {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceCached)
	}
	if result.Message != "Showing cached results" {
		t.Errorf("message = %q, want 'Showing cached results'", result.Message)
	}
	if len(result.Recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(result.Recipes))
	}
	// Most recently cached first.
	if result.Recipes[0].ID != "sp-11" || result.Recipes[1].ID != "sp-10" {
		t.Errorf("cached order = [%s, %s], want [sp-11, sp-10]", result.Recipes[0].ID, result.Recipes[1].ID)
	}
}

func TestSearch_ProviderFailureEmptyCache(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return nil, &provider.ProviderError{Op: "SearchByKeyword", Cause: errors.New("connection refused")}
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "xyzzy"}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceEmpty {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceEmpty)
	}
	if result.Message != "No recipes found. Try a different search term." {
		t.Errorf("message = %q", result.Message)
	}
	if len(result.Recipes) != 0 {
		t.Errorf("got %d recipes, want 0", len(result.Recipes))
	}
}

func TestSearch_StoreErrorDegradesToEmpty(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	repo.FindByTitleSubstringErr = errors.New("connection reset")
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return nil, &provider.ProviderError{Op: "SearchByKeyword", Cause: errors.New("timeout")}
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "pasta"}, 0)
	if err != nil {
		t.Fatalf("Search must not raise on store failure, got: %v", err)
	}
	if result.Provenance != ProvenanceEmpty {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceEmpty)
	}
	if result.Message != "Search is temporarily unavailable. Please try again." {
		t.Errorf("message = %q", result.Message)
	}
}

func TestSearch_EmptyQueryRejectedWithoutCalls(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	mockProvider := &testutil.MockRecipeProvider{}
	svc := newTestSearchService(mockProvider, repo)

	queries := []SearchQuery{
		{},
		{Keyword: "   "},
		{Ingredients: []string{"", "  "}},
	}
	for _, q := range queries {
		_, err := svc.Search(context.Background(), q, 0)
		var vErr ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Search(%+v) error = %v, want ValidationError", q, err)
		}
	}
	if mockProvider.Calls() != 0 {
		t.Errorf("provider calls = %d, want 0", mockProvider.Calls())
	}
}

func TestSearch_KeywordTakesPrecedenceOverIngredients(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return []provider.RecipeData{}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	_, err := svc.Search(context.Background(), SearchQuery{
		Keyword:     "stir fry",
		Ingredients: []string{"chicken", "broccoli"},
	}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if mockProvider.KeywordCalls != 1 || mockProvider.IngredientCalls != 0 {
		t.Errorf("calls = keyword %d / ingredients %d, want 1 / 0",
			mockProvider.KeywordCalls, mockProvider.IngredientCalls)
	}
}

func TestSearch_IngredientQueryFallbackMatchesAnyName(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	cached := testutil.TestCachedRecipe("sp-20", "Garlic Spaghetti", time.Now())
	repo.Recipes[cached.ID] = &cached

	mockProvider := &testutil.MockRecipeProvider{
		SearchByIngredientsFunc: func(ctx context.Context, names []string, limit int) ([]provider.RecipeData, error) {
			return nil, &provider.ProviderError{Op: "SearchByIngredients", Cause: errors.New("503")}
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{
		Ingredients: []string{"anchovies", "garlic"},
	}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceCached {
		t.Fatalf("provenance = %q, want %q", result.Provenance, ProvenanceCached)
	}
	if len(result.Recipes) != 1 || result.Recipes[0].ID != "sp-20" {
		t.Errorf("unexpected fallback results: %+v", result.Recipes)
	}
}

func TestSearch_LimitDefaultsAndClamps(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	var gotLimit int
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			gotLimit = limit
			return []provider.RecipeData{}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultSearchLimit},
		{-5, DefaultSearchLimit},
		{7, 7},
		{500, provider.MaxSearchResults},
	}
	for _, tc := range cases {
		if _, err := svc.Search(context.Background(), SearchQuery{Keyword: "soup"}, tc.in); err != nil {
			t.Fatalf("Search(limit=%d) error: %v", tc.in, err)
		}
		if gotLimit != tc.want {
			t.Errorf("Search(limit=%d) provider limit = %d, want %d", tc.in, gotLimit, tc.want)
		}
	}
}

func TestSearch_WriteThroughDoesNotBlockResponse(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	repo.UpsertDelay = 500 * time.Millisecond
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return []provider.RecipeData{testutil.TestRecipeData("sp-1", "Slow Cache Soup")}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	start := time.Now()
	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "soup"}, 0)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceLive {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceLive)
	}
	if elapsed >= repo.UpsertDelay {
		t.Errorf("Search blocked on cache write: took %v", elapsed)
	}

	waitForUpsert(t, repo)
	if repo.Count() != 1 {
		t.Errorf("cached recipes = %d, want 1", repo.Count())
	}
}

func TestSearch_RepeatedResultsUpsertIdempotently(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return []provider.RecipeData{
				testutil.TestRecipeData("sp-1", "Pasta Primavera"),
				testutil.TestRecipeData("sp-2", "Pasta Arrabbiata"),
			}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	for i := 0; i < 2; i++ {
		if _, err := svc.Search(context.Background(), SearchQuery{Keyword: "pasta"}, 0); err != nil {
			t.Fatalf("Search error: %v", err)
		}
		waitForUpsert(t, repo)
	}

	if repo.Count() != 2 {
		t.Errorf("cached recipes = %d, want 2 (upsert must not duplicate)", repo.Count())
	}
}

func TestSearch_EmptyLiveResultIsLiveNotFallback(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	cached := testutil.TestCachedRecipe("sp-30", "Obscure Stew", time.Now())
	repo.Recipes[cached.ID] = &cached

	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return []provider.RecipeData{}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "obscure"}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceLive {
		t.Errorf("provenance = %q, want %q: an empty live result must not trigger fallback", result.Provenance, ProvenanceLive)
	}
	if len(result.Recipes) != 0 {
		t.Errorf("got %d recipes, want 0", len(result.Recipes))
	}
}

func TestSearch_WriteThroughFailureIsSwallowed(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	repo.UpsertManyErr = errors.New("disk full")
	mockProvider := &testutil.MockRecipeProvider{
		SearchByKeywordFunc: func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
			return []provider.RecipeData{testutil.TestRecipeData("sp-1", "Pasta Primavera")}, nil
		},
	}
	svc := newTestSearchService(mockProvider, repo)

	result, err := svc.Search(context.Background(), SearchQuery{Keyword: "pasta"}, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Provenance != ProvenanceLive {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceLive)
	}
	if len(result.Recipes) != 1 {
		t.Errorf("got %d recipes, want 1", len(result.Recipes))
	}
}
