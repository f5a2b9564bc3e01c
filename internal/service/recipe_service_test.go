package service

import (
	"errors"
	"testing"
	"time"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/repository"
	"github.com/crumbapp/crumb-api/internal/testutil"
)

func newTestRecipeService(repo *testutil.MockRecipeRepo) *RecipeService {
	return &RecipeService{
		Cfg:  &config.Config{},
		Repo: repo,
	}
}

func validRecipeInput() RecipeInput {
	return RecipeInput{
		Title:          "Weeknight Chili",
		ReadyInMinutes: 40,
		Servings:       4,
		Ingredients: models.Ingredients{
			{OriginalText: "400g ground beef", Name: "ground beef", Amount: 400, Unit: "g"},
			{OriginalText: "1 can kidney beans", Name: "kidney beans", Amount: 1, Unit: "can"},
		},
		Instructions: []string{"Brown the beef.", "Add beans and simmer."},
	}
}

func TestCreateRecipe_Success(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	user := testutil.TestUser()

	recipe, err := svc.CreateRecipe(user, validRecipeInput())
	if err != nil {
		t.Fatalf("CreateRecipe error: %v", err)
	}
	if recipe.ID == "" {
		t.Error("created recipe must get a generated ID")
	}
	if recipe.Source != models.SourceUser {
		t.Errorf("source = %q, want %q", recipe.Source, models.SourceUser)
	}
	if recipe.OwnerID == nil || *recipe.OwnerID != user.ID {
		t.Errorf("owner = %v, want %d", recipe.OwnerID, user.ID)
	}
	if err := recipe.Instructions.Validate(); err != nil {
		t.Errorf("instruction numbering invalid: %v", err)
	}
	if len(recipe.IngredientText) != 2 {
		t.Errorf("ingredient text lines = %d, want 2", len(recipe.IngredientText))
	}
}

func TestCreateRecipe_Validation(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	user := testutil.TestUser()

	cases := []struct {
		name   string
		mutate func(*RecipeInput)
	}{
		{"empty title", func(in *RecipeInput) { in.Title = "" }},
		{"bad image URL", func(in *RecipeInput) { in.ImageURL = "not-a-url" }},
		{"negative ready time", func(in *RecipeInput) { in.ReadyInMinutes = -1 }},
		{"negative servings", func(in *RecipeInput) { in.Servings = -2 }},
	}
	for _, tc := range cases {
		in := validRecipeInput()
		tc.mutate(&in)
		_, err := svc.CreateRecipe(user, in)
		var vErr ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%s: error = %v, want ValidationError", tc.name, err)
		}
	}
	if repo.Count() != 0 {
		t.Errorf("recipes in repo = %d, want 0", repo.Count())
	}
}

func TestUpdateRecipe_PreservesIdentity(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	user := testutil.TestUser()

	created, err := svc.CreateRecipe(user, validRecipeInput())
	if err != nil {
		t.Fatalf("CreateRecipe error: %v", err)
	}

	in := validRecipeInput()
	in.Title = "Weekend Chili"
	updated, err := svc.UpdateRecipe(user, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateRecipe error: %v", err)
	}
	if updated.Title != "Weekend Chili" {
		t.Errorf("title = %q, want 'Weekend Chili'", updated.Title)
	}
	if updated.ID != created.ID {
		t.Errorf("ID changed on update: %q -> %q", created.ID, updated.ID)
	}
	if updated.Source != models.SourceUser {
		t.Errorf("source changed on update: %q", updated.Source)
	}
	if updated.OwnerID == nil || *updated.OwnerID != user.ID {
		t.Errorf("owner changed on update: %v", updated.OwnerID)
	}
}

func TestUpdateRecipe_RejectsNonOwner(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	owner := testutil.TestUser()

	created, err := svc.CreateRecipe(owner, validRecipeInput())
	if err != nil {
		t.Fatalf("CreateRecipe error: %v", err)
	}

	other := testutil.TestUser()
	other.ID = 99
	if _, err := svc.UpdateRecipe(other, created.ID, validRecipeInput()); err == nil {
		t.Fatal("expected error when a non-owner updates a recipe")
	}
}

func TestUpdateRecipe_RejectsProviderRecipes(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	cached := testutil.TestCachedRecipe("sp-5", "Provider Pasta", time.Now())
	repo.Recipes[cached.ID] = &cached

	svc := newTestRecipeService(repo)
	if _, err := svc.UpdateRecipe(testutil.TestUser(), "sp-5", validRecipeInput()); err == nil {
		t.Fatal("expected error when editing a provider-cached recipe")
	}
}

func TestGetRecipeByID_NotFound(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)

	_, err := svc.GetRecipeByID("missing")
	var nfErr repository.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestGetUserRecipes_PaginatesOwnRecipesOnly(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	user := testutil.TestUser()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateRecipe(user, validRecipeInput()); err != nil {
			t.Fatalf("CreateRecipe error: %v", err)
		}
	}
	cached := testutil.TestCachedRecipe("sp-9", "Provider Pasta", time.Now())
	repo.Recipes[cached.ID] = &cached

	recipes, total, err := svc.GetUserRecipes(user.ID, 1, 2)
	if err != nil {
		t.Fatalf("GetUserRecipes error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(recipes) != 2 {
		t.Errorf("page size = %d, want 2", len(recipes))
	}
	for _, r := range recipes {
		if r.Source != models.SourceUser {
			t.Errorf("listed recipe %s has source %q", r.ID, r.Source)
		}
	}
}
