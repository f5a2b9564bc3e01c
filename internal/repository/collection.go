package repository

import (
	"errors"
	"log"

	"github.com/crumbapp/crumb-api/internal/models"
	"gorm.io/gorm"
)

// CollectionRepository is a repository for interacting with recipe collections.
type CollectionRepository struct {
	DB *gorm.DB
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{DB: db}
}

// CreateCollection creates a new collection.
func (r *CollectionRepository) CreateCollection(collection *models.Collection) error {
	err := r.DB.Create(collection).Error
	if err != nil {
		log.Printf("Error creating collection: %v", err)
	}
	return err
}

// GetCollectionByID retrieves a collection with its recipes preloaded.
func (r *CollectionRepository) GetCollectionByID(collectionID uint) (*models.Collection, error) {
	var collection models.Collection

	err := r.DB.Preload("Recipes").First(&collection, collectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Collection not found"}
		}
		return nil, err
	}

	return &collection, nil
}

// GetUserCollections returns all collections owned by a user, newest first.
func (r *CollectionRepository) GetUserCollections(userID uint) ([]models.Collection, error) {
	var collections []models.Collection

	err := r.DB.Preload("Recipes").
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}

	return collections, nil
}

// UpdateCollectionName renames a collection.
func (r *CollectionRepository) UpdateCollectionName(collectionID uint, name string) error {
	err := r.DB.Model(&models.Collection{}).
		Where("id = ?", collectionID).
		Update("name", name).Error
	if err != nil {
		log.Printf("Error renaming collection: %v", err)
	}
	return err
}

// DeleteCollection deletes a collection. The recipes themselves are untouched.
func (r *CollectionRepository) DeleteCollection(collectionID uint) error {
	collection := models.Collection{Model: gorm.Model{ID: collectionID}}

	if err := r.DB.Model(&collection).Association("Recipes").Clear(); err != nil {
		log.Printf("Error clearing collection recipes: %v", err)
		return err
	}

	err := r.DB.Delete(&collection).Error
	if err != nil {
		log.Printf("Error deleting collection: %v", err)
	}
	return err
}

// AddRecipeToCollection associates a recipe with a collection.
func (r *CollectionRepository) AddRecipeToCollection(collectionID uint, recipe *models.Recipe) error {
	collection := models.Collection{Model: gorm.Model{ID: collectionID}}
	err := r.DB.Model(&collection).Association("Recipes").Append(recipe)
	if err != nil {
		log.Printf("Error adding recipe to collection: %v", err)
	}
	return err
}

// RemoveRecipeFromCollection removes a recipe from a collection.
func (r *CollectionRepository) RemoveRecipeFromCollection(collectionID uint, recipe *models.Recipe) error {
	collection := models.Collection{Model: gorm.Model{ID: collectionID}}
	err := r.DB.Model(&collection).Association("Recipes").Delete(recipe)
	if err != nil {
		log.Printf("Error removing recipe from collection: %v", err)
	}
	return err
}
