package testutil

import (
	"time"

	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/provider"
	"gorm.io/gorm"
)

// TestUser creates a test user with auth populated.
func TestUser() *models.User {
	return &models.User{
		Model:     gorm.Model{ID: 1},
		Username:  "testuser",
		FirstName: "Test",
		Email:     "test@example.com",
		Auth: &models.UserAuth{
			Model:          gorm.Model{ID: 1},
			UserID:         1,
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ012",
			AuthType:       models.Standard,
		},
	}
}

// TestRecipeData creates a provider result shaped like a real upstream hit.
func TestRecipeData(id, title string) provider.RecipeData {
	return provider.RecipeData{
		ID:             id,
		Title:          title,
		ImageURL:       "https://img.example.com/" + id + ".jpg",
		ReadyInMinutes: 25,
		Servings:       4,
		Ingredients: []provider.IngredientData{
			{OriginalText: "200g spaghetti", Name: "spaghetti", Amount: 200, Unit: "g"},
			{OriginalText: "2 cloves garlic, minced", Name: "garlic", Amount: 2, Unit: "cloves"},
			{OriginalText: "3 tbsp olive oil", Name: "olive oil", Amount: 3, Unit: "tbsp"},
		},
		Instructions: []provider.StepData{
			{Number: 1, Text: "Boil the pasta until al dente."},
			{Number: 2, Text: "Saute the garlic in olive oil."},
			{Number: 3, Text: "Toss the pasta in the garlic oil."},
		},
		Vegetarian: true,
		SourceURL:  "https://recipes.example.com/" + id,
	}
}

// TestCachedRecipe creates a provider-sourced recipe as it would sit in the
// local cache, with IngredientText populated and CachedAt set.
func TestCachedRecipe(id, title string, cachedAt time.Time) models.Recipe {
	r := models.Recipe{
		ID:             id,
		Title:          title,
		ReadyInMinutes: 25,
		Servings:       4,
		Ingredients: models.Ingredients{
			{OriginalText: "200g spaghetti", Name: "spaghetti", Amount: 200, Unit: "g"},
			{OriginalText: "2 cloves garlic, minced", Name: "garlic", Amount: 2, Unit: "cloves"},
		},
		Instructions: models.Instructions{
			{Number: 1, Text: "Boil the pasta until al dente."},
			{Number: 2, Text: "Saute the garlic in olive oil."},
		},
		Source:   models.SourceProvider,
		CachedAt: cachedAt,
	}
	r.RefreshIngredientText()
	return r
}

// TestUserRecipe creates a user-authored recipe owned by the given user.
func TestUserRecipe(id string, ownerID uint) *models.Recipe {
	r := &models.Recipe{
		ID:             id,
		Title:          "Grandma's Lasagna",
		ReadyInMinutes: 90,
		Servings:       6,
		Ingredients: models.Ingredients{
			{OriginalText: "12 lasagna noodles", Name: "lasagna noodles", Amount: 12},
			{OriginalText: "500g ground beef", Name: "ground beef", Amount: 500, Unit: "g"},
		},
		Instructions: models.Instructions{
			{Number: 1, Text: "Brown the beef."},
			{Number: 2, Text: "Layer noodles, sauce, and cheese."},
			{Number: 3, Text: "Bake at 190C for 45 minutes."},
		},
		Source:  models.SourceUser,
		OwnerID: &ownerID,
	}
	r.RefreshIngredientText()
	return r
}

// TestGroceryList creates a grocery list with a couple of items.
func TestGroceryList(id uint, ownerID uint) *models.GroceryList {
	return &models.GroceryList{
		Model:   gorm.Model{ID: id},
		Name:    "Weekly Shop",
		OwnerID: ownerID,
		Items: models.GroceryItems{
			{ID: "11111111-1111-1111-1111-111111111111", Name: "milk", Quantity: "1L"},
			{ID: "22222222-2222-2222-2222-222222222222", Name: "eggs", Quantity: "12", Checked: true},
		},
	}
}
