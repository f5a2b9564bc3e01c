package service

import (
	"context"
	"fmt"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/repository"
	"github.com/crumbapp/crumb-api/internal/s3"
	"github.com/google/uuid"
)

// RecipeService is the business logic layer for user-authored recipes.
type RecipeService struct {
	Cfg  *config.Config
	Repo repository.RecipeRepo
}

// NewRecipeService is the constructor function for initializing a new RecipeService.
func NewRecipeService(cfg *config.Config, repo repository.RecipeRepo) *RecipeService {
	return &RecipeService{
		Cfg:  cfg,
		Repo: repo,
	}
}

// RecipeInput is the payload for creating or updating a custom recipe.
// Instruction steps arrive as plain text and are numbered in order.
type RecipeInput struct {
	Title          string             `json:"title"`
	ImageURL       string             `json:"imageUrl"`
	ReadyInMinutes int                `json:"readyInMinutes"`
	Servings       int                `json:"servings"`
	Ingredients    models.Ingredients `json:"ingredients"`
	Instructions   []string           `json:"instructions"`
	Vegetarian     bool               `json:"vegetarian"`
	Vegan          bool               `json:"vegan"`
	GlutenFree     bool               `json:"glutenFree"`
	DairyFree      bool               `json:"dairyFree"`
}

// CreateRecipe creates a new user-authored recipe with a generated UUID,
// keeping it in a separate ID namespace from provider recipes.
func (s *RecipeService) CreateRecipe(user *models.User, input RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	recipe := inputToRecipe(input)
	recipe.ID = uuid.New().String()
	recipe.Source = models.SourceUser
	recipe.OwnerID = &user.ID

	if err := s.Repo.CreateRecipe(recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return recipe, nil
}

// GetRecipeByID fetches a recipe by its ID, provider-cached or user-authored.
func (s *RecipeService) GetRecipeByID(recipeID string) (*models.Recipe, error) {
	return s.Repo.GetRecipeByID(recipeID)
}

// GetUserRecipes returns a paginated list of the user's own recipes.
func (s *RecipeService) GetUserRecipes(userID uint, page, pageSize int) ([]models.Recipe, int64, error) {
	recipes, total, err := s.Repo.GetUserRecipes(userID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get user recipes: %w", err)
	}
	return recipes, total, nil
}

// UpdateRecipe replaces a user-authored recipe's fields wholesale. The ID,
// source, and owner are immutable.
func (s *RecipeService) UpdateRecipe(user *models.User, recipeID string, input RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(user, existing); err != nil {
		return nil, err
	}

	updated := inputToRecipe(input)
	updated.ID = existing.ID
	updated.Source = existing.Source
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	updated.CachedAt = existing.CachedAt

	if err := s.Repo.UpdateRecipe(updated); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	return updated, nil
}

// DeleteRecipe deletes a user-authored recipe and its uploaded image, if any.
func (s *RecipeService) DeleteRecipe(ctx context.Context, user *models.User, recipeID string) error {
	existing, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(user, existing); err != nil {
		return err
	}

	if err := s.Repo.DeleteRecipe(recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s3Key := s3.GenerateRecipeImageKey(recipeID)
	if err := s3.DeleteRecipeImage(ctx, s.Cfg, s3Key); err != nil {
		return fmt.Errorf("failed to delete recipe image from S3: %w", err)
	}

	return nil
}

// UploadRecipeImage uploads image bytes for a user-authored recipe and stores
// the resulting URL on the recipe.
func (s *RecipeService) UploadRecipeImage(ctx context.Context, user *models.User, recipeID string, imgBytes []byte) (*models.Recipe, error) {
	existing, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(user, existing); err != nil {
		return nil, err
	}

	s3Key := s3.GenerateRecipeImageKey(recipeID)
	location, err := s3.UploadRecipeImage(ctx, s.Cfg, imgBytes, s3Key)
	if err != nil {
		return nil, fmt.Errorf("failed to upload recipe image to S3: %w", err)
	}

	existing.ImageURL = location
	if err := s.Repo.UpdateRecipe(existing); err != nil {
		return nil, fmt.Errorf("failed to update recipe image URL: %w", err)
	}

	return existing, nil
}

// checkOwnership verifies the recipe is user-authored and owned by the caller.
func (s *RecipeService) checkOwnership(user *models.User, recipe *models.Recipe) error {
	if recipe.Source != models.SourceUser || recipe.OwnerID == nil || *recipe.OwnerID != user.ID {
		return NewValidationError("recipe does not belong to you")
	}
	return nil
}

// validateRecipeInput applies the shared create/update validation rules.
func validateRecipeInput(input RecipeInput) error {
	if input.Title == "" {
		return NewValidationError("recipe title must not be empty")
	}

	profanityDetector := goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true).WithSanitizeAccents(false)
	if profanityDetector.IsProfane(input.Title) {
		return NewValidationError("recipe title contains inappropriate language")
	}

	if input.ImageURL != "" && !govalidator.IsURL(input.ImageURL) {
		return NewValidationError("image URL is not a valid URL")
	}
	if input.ReadyInMinutes < 0 {
		return NewValidationError("ready-in minutes must be positive")
	}
	if input.Servings < 0 {
		return NewValidationError("servings must be positive")
	}

	return nil
}

// inputToRecipe converts a validated input into a Recipe, numbering the
// instruction steps in sequence order.
func inputToRecipe(input RecipeInput) *models.Recipe {
	instructions := make(models.Instructions, len(input.Instructions))
	for i, text := range input.Instructions {
		instructions[i] = models.InstructionStep{Number: i + 1, Text: text}
	}

	return &models.Recipe{
		Title:          input.Title,
		ImageURL:       input.ImageURL,
		ReadyInMinutes: input.ReadyInMinutes,
		Servings:       input.Servings,
		Ingredients:    input.Ingredients,
		Instructions:   instructions,
		Vegetarian:     input.Vegetarian,
		Vegan:          input.Vegan,
		GlutenFree:     input.GlutenFree,
		DairyFree:      input.DairyFree,
	}
}
