package repository

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/crumbapp/crumb-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository is a repository for interacting with recipes. It serves
// both user-authored recipes and the local cache of provider results.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

// UpsertMany writes a batch of recipes, replacing any existing record that
// shares an id. Each row is written last-write-wins; applying the same batch
// twice leaves the stored content unchanged.
func (r *RecipeRepository) UpsertMany(recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	now := time.Now()
	for i := range recipes {
		recipes[i].CachedAt = now
		recipes[i].RefreshIngredientText()
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&recipes).Error
	if err != nil {
		log.Printf("Error upserting recipes: %v", err)
	}
	return err
}

// FindByTitleSubstring returns recipes whose title contains the given text,
// case-insensitively, most recently cached first.
func (r *RecipeRepository) FindByTitleSubstring(text string, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe

	err := r.DB.Where("title ILIKE ?", "%"+text+"%").
		Order("cached_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	return recipes, nil
}

// FindByIngredients returns recipes whose ingredient text contains at least
// one of the given names, case-insensitively, most recently cached first.
func (r *RecipeRepository) FindByIngredients(names []string, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe

	conds := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		conds = append(conds, "EXISTS (SELECT 1 FROM unnest(ingredient_text) AS line WHERE line LIKE ?)")
		args = append(args, "%"+strings.ToLower(name)+"%")
	}

	err := r.DB.Where(strings.Join(conds, " OR "), args...).
		Order("cached_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	return recipes, nil
}

// CreateRecipe creates a new recipe.
func (r *RecipeRepository) CreateRecipe(recipe *models.Recipe) error {
	recipe.RefreshIngredientText()
	recipe.CachedAt = time.Now()

	err := r.DB.Create(recipe).Error
	if err != nil {
		log.Printf("Error creating recipe: %v", err)
	}
	return err
}

// GetRecipeByID retrieves a recipe by its ID.
func (r *RecipeRepository) GetRecipeByID(recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe

	err := r.DB.Where("id = ?", recipeID).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Recipe not found"}
		}
		log.Printf("Error retrieving recipe: %v", err)
		return nil, err
	}

	return &recipe, nil
}

// GetUserRecipes returns a page of recipes authored by the given user,
// newest first, plus the total count.
func (r *RecipeRepository) GetUserRecipes(userID uint, page, pageSize int) ([]models.Recipe, int64, error) {
	var recipes []models.Recipe
	var total int64

	base := r.DB.Model(&models.Recipe{}).
		Where("owner_id = ? AND source = ?", userID, models.SourceUser)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// UpdateRecipe replaces a recipe's stored fields wholesale.
func (r *RecipeRepository) UpdateRecipe(recipe *models.Recipe) error {
	recipe.RefreshIngredientText()

	err := r.DB.Save(recipe).Error
	if err != nil {
		log.Printf("Error updating recipe: %v", err)
	}
	return err
}

// DeleteRecipe deletes a recipe.
func (r *RecipeRepository) DeleteRecipe(recipeID string) error {
	err := r.DB.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	if err != nil {
		log.Printf("Error deleting recipe: %v", err)
	}
	return err
}
