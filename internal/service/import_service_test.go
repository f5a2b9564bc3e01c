package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/provider"
	"github.com/crumbapp/crumb-api/internal/testutil"
)

func newTestImportService(repo *testutil.MockRecipeRepo, primary, fallback provider.ExtractionProvider) *ImportService {
	return &ImportService{
		Cfg:      &config.Config{},
		Repo:     repo,
		Primary:  primary,
		Fallback: fallback,
	}
}

func newRecipePageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Classic Pancakes</h1></body></html>"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestImportFromURL_Success(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	server := newRecipePageServer(t)

	primary := &testutil.MockExtractionProvider{
		ExtractRecipeFunc: func(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error) {
			data := testutil.TestRecipeData("", "Classic Pancakes")
			data.SourceURL = sourceURL
			return &data, nil
		},
	}

	svc := newTestImportService(repo, primary, nil)
	user := testutil.TestUser()

	recipe, err := svc.ImportFromURL(context.Background(), server.URL, user)
	if err != nil {
		t.Fatalf("ImportFromURL error: %v", err)
	}
	if recipe.Title != "Classic Pancakes" {
		t.Errorf("title = %q, want 'Classic Pancakes'", recipe.Title)
	}
	if recipe.Source != models.SourceUser {
		t.Errorf("source = %q, want %q", recipe.Source, models.SourceUser)
	}
	if recipe.OwnerID == nil || *recipe.OwnerID != user.ID {
		t.Errorf("owner = %v, want %d", recipe.OwnerID, user.ID)
	}
	if recipe.ID == "" {
		t.Error("imported recipe must get a generated ID")
	}
	if recipe.SourceURL != server.URL {
		t.Errorf("sourceURL = %q, want %q", recipe.SourceURL, server.URL)
	}
	if repo.Count() != 1 {
		t.Errorf("recipes in repo = %d, want 1", repo.Count())
	}
}

func TestImportFromURL_FallbackOnPrimaryFailure(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	server := newRecipePageServer(t)

	primary := &testutil.MockExtractionProvider{
		ExtractRecipeFunc: func(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error) {
			return nil, errors.New("overloaded")
		},
	}
	fallback := &testutil.MockExtractionProvider{
		ExtractRecipeFunc: func(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error) {
			data := testutil.TestRecipeData("", "Fallback Pancakes")
			return &data, nil
		},
	}

	svc := newTestImportService(repo, primary, fallback)

	recipe, err := svc.ImportFromURL(context.Background(), server.URL, testutil.TestUser())
	if err != nil {
		t.Fatalf("ImportFromURL error: %v", err)
	}
	if recipe.Title != "Fallback Pancakes" {
		t.Errorf("title = %q, want 'Fallback Pancakes'", recipe.Title)
	}
}

func TestImportFromURL_InvalidURL(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestImportService(repo, &testutil.MockExtractionProvider{}, nil)

	_, err := svc.ImportFromURL(context.Background(), "not a url", testutil.TestUser())
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestImportFromURL_NoRecipeOnPage(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	server := newRecipePageServer(t)

	primary := &testutil.MockExtractionProvider{
		ExtractRecipeFunc: func(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error) {
			return &provider.RecipeData{}, nil
		},
	}
	svc := newTestImportService(repo, primary, nil)

	_, err := svc.ImportFromURL(context.Background(), server.URL, testutil.TestUser())
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if repo.Count() != 0 {
		t.Errorf("recipes in repo = %d, want 0", repo.Count())
	}
}

func TestImportFromURL_BothProvidersFail(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	server := newRecipePageServer(t)

	failing := &testutil.MockExtractionProvider{
		ExtractRecipeFunc: func(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error) {
			return nil, errors.New("unavailable")
		},
	}
	svc := newTestImportService(repo, failing, failing)

	if _, err := svc.ImportFromURL(context.Background(), server.URL, testutil.TestUser()); err == nil {
		t.Fatal("expected error when both extraction providers fail")
	}
}
