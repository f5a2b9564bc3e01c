package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/logger"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/provider"
	"github.com/crumbapp/crumb-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxImportBodySize caps how much page content is read for extraction.
const maxImportBodySize = 2 * 1024 * 1024

// ImportService turns a recipe URL into a saved user recipe by running the
// page content through an AI extraction provider. The fallback provider, if
// configured, is tried when the primary fails.
type ImportService struct {
	Cfg      *config.Config
	Repo     repository.RecipeRepo
	Primary  provider.ExtractionProvider
	Fallback provider.ExtractionProvider
}

// NewImportService creates a new ImportService. fallback may be nil.
func NewImportService(cfg *config.Config, repo repository.RecipeRepo, primary, fallback provider.ExtractionProvider) *ImportService {
	return &ImportService{
		Cfg:      cfg,
		Repo:     repo,
		Primary:  primary,
		Fallback: fallback,
	}
}

// ImportFromURL fetches a page and extracts a recipe from it, saving the
// result under the user's own recipe namespace.
func (s *ImportService) ImportFromURL(ctx context.Context, url string, user *models.User) (*models.Recipe, error) {
	if !govalidator.IsURL(url) {
		return nil, NewValidationError("invalid recipe URL")
	}

	log := logger.Get().With(zap.Uint("user_id", user.ID), zap.String("source_url", url))

	content, err := fetchPage(ctx, url)
	if err != nil {
		log.Error("failed to fetch URL", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	data, err := s.extract(ctx, content, url)
	if err != nil {
		log.Error("recipe extraction failed", zap.Error(err))
		return nil, fmt.Errorf("failed to extract recipe from URL: %w", err)
	}

	if data.Title == "" {
		return nil, NewValidationError("no recipe found at that URL")
	}

	recipe := extractedToRecipe(data, user)
	if err := s.Repo.CreateRecipe(recipe); err != nil {
		return nil, fmt.Errorf("failed to save imported recipe: %w", err)
	}

	log.Info("imported recipe from URL", zap.String("recipe_id", recipe.ID))
	return recipe, nil
}

// extract runs the primary extraction provider, then the fallback.
func (s *ImportService) extract(ctx context.Context, content, url string) (*provider.RecipeData, error) {
	if s.Primary == nil {
		return nil, fmt.Errorf("no extraction provider configured")
	}

	data, err := s.Primary.ExtractRecipe(ctx, content, url)
	if err == nil {
		return data, nil
	}

	if s.Fallback == nil {
		return nil, err
	}
	logger.Get().Warn("primary extraction failed, trying fallback", zap.Error(err))
	return s.Fallback.ExtractRecipe(ctx, content, url)
}

func fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("URL returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImportBodySize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractedToRecipe converts extraction output into a user-owned recipe.
func extractedToRecipe(data *provider.RecipeData, user *models.User) *models.Recipe {
	ingredients := make(models.Ingredients, len(data.Ingredients))
	for i, ing := range data.Ingredients {
		ingredients[i] = models.Ingredient{
			OriginalText: ing.OriginalText,
			Name:         ing.Name,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
		}
	}

	instructions := make(models.Instructions, len(data.Instructions))
	for i, step := range data.Instructions {
		instructions[i] = models.InstructionStep{Number: step.Number, Text: step.Text}
	}

	return &models.Recipe{
		ID:             uuid.New().String(),
		Title:          data.Title,
		ImageURL:       data.ImageURL,
		ReadyInMinutes: data.ReadyInMinutes,
		Servings:       data.Servings,
		Ingredients:    ingredients,
		Instructions:   instructions,
		Vegetarian:     data.Vegetarian,
		Vegan:          data.Vegan,
		GlutenFree:     data.GlutenFree,
		DairyFree:      data.DairyFree,
		SourceURL:      data.SourceURL,
		Source:         models.SourceUser,
		OwnerID:        &user.ID,
	}
}
