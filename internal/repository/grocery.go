package repository

import (
	"errors"
	"log"

	"github.com/crumbapp/crumb-api/internal/models"
	"gorm.io/gorm"
)

// GroceryRepository is a repository for interacting with grocery lists.
type GroceryRepository struct {
	DB *gorm.DB
}

// NewGroceryRepository creates a new GroceryRepository.
func NewGroceryRepository(db *gorm.DB) *GroceryRepository {
	return &GroceryRepository{DB: db}
}

// CreateList creates a new grocery list.
func (r *GroceryRepository) CreateList(list *models.GroceryList) error {
	err := r.DB.Create(list).Error
	if err != nil {
		log.Printf("Error creating grocery list: %v", err)
	}
	return err
}

// GetListByID retrieves a grocery list by its ID.
func (r *GroceryRepository) GetListByID(listID uint) (*models.GroceryList, error) {
	var list models.GroceryList

	err := r.DB.First(&list, listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Grocery list not found"}
		}
		return nil, err
	}

	return &list, nil
}

// GetUserLists returns all grocery lists owned by a user, newest first.
func (r *GroceryRepository) GetUserLists(userID uint) ([]models.GroceryList, error) {
	var lists []models.GroceryList

	err := r.DB.Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	return lists, nil
}

// UpdateListName renames a grocery list.
func (r *GroceryRepository) UpdateListName(listID uint, name string) error {
	err := r.DB.Model(&models.GroceryList{}).
		Where("id = ?", listID).
		Update("name", name).Error
	if err != nil {
		log.Printf("Error renaming grocery list: %v", err)
	}
	return err
}

// UpdateListItems replaces a grocery list's items.
func (r *GroceryRepository) UpdateListItems(listID uint, items models.GroceryItems) error {
	err := r.DB.Model(&models.GroceryList{}).
		Where("id = ?", listID).
		Update("items", items).Error
	if err != nil {
		log.Printf("Error updating grocery list items: %v", err)
	}
	return err
}

// DeleteList deletes a grocery list.
func (r *GroceryRepository) DeleteList(listID uint) error {
	err := r.DB.Delete(&models.GroceryList{}, listID).Error
	if err != nil {
		log.Printf("Error deleting grocery list: %v", err)
	}
	return err
}
