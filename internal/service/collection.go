package service

import (
	"fmt"
	"strings"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/repository"
)

// CollectionService is the business logic layer for recipe collections.
type CollectionService struct {
	Cfg        *config.Config
	Repo       repository.CollectionRepo
	RecipeRepo repository.RecipeRepo
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(cfg *config.Config, repo repository.CollectionRepo, recipeRepo repository.RecipeRepo) *CollectionService {
	return &CollectionService{
		Cfg:        cfg,
		Repo:       repo,
		RecipeRepo: recipeRepo,
	}
}

// CreateCollection creates a new, empty collection for the user.
func (s *CollectionService) CreateCollection(user *models.User, name string) (*models.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("collection name must not be empty")
	}

	collection := &models.Collection{
		Name:    name,
		OwnerID: user.ID,
	}
	if err := s.Repo.CreateCollection(collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return collection, nil
}

// GetCollection fetches one of the user's collections with recipes preloaded.
func (s *CollectionService) GetCollection(user *models.User, collectionID uint) (*models.Collection, error) {
	collection, err := s.Repo.GetCollectionByID(collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != user.ID {
		return nil, NewValidationError("collection does not belong to you")
	}
	return collection, nil
}

// GetUserCollections returns all of the user's collections.
func (s *CollectionService) GetUserCollections(user *models.User) ([]models.Collection, error) {
	return s.Repo.GetUserCollections(user.ID)
}

// RenameCollection renames one of the user's collections.
func (s *CollectionService) RenameCollection(user *models.User, collectionID uint, name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("collection name must not be empty")
	}
	if _, err := s.GetCollection(user, collectionID); err != nil {
		return err
	}
	return s.Repo.UpdateCollectionName(collectionID, name)
}

// DeleteCollection deletes one of the user's collections. The recipes in it
// are untouched.
func (s *CollectionService) DeleteCollection(user *models.User, collectionID uint) error {
	if _, err := s.GetCollection(user, collectionID); err != nil {
		return err
	}
	return s.Repo.DeleteCollection(collectionID)
}

// AddRecipe adds a recipe, cached or user-authored, to a collection.
func (s *CollectionService) AddRecipe(user *models.User, collectionID uint, recipeID string) error {
	if _, err := s.GetCollection(user, collectionID); err != nil {
		return err
	}

	recipe, err := s.RecipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		return err
	}

	if err := s.Repo.AddRecipeToCollection(collectionID, recipe); err != nil {
		return fmt.Errorf("failed to add recipe to collection: %w", err)
	}
	return nil
}

// RemoveRecipe removes a recipe from a collection.
func (s *CollectionService) RemoveRecipe(user *models.User, collectionID uint, recipeID string) error {
	if _, err := s.GetCollection(user, collectionID); err != nil {
		return err
	}

	recipe, err := s.RecipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		return err
	}

	if err := s.Repo.RemoveRecipeFromCollection(collectionID, recipe); err != nil {
		return fmt.Errorf("failed to remove recipe from collection: %w", err)
	}
	return nil
}
