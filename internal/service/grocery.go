package service

import (
	"fmt"
	"strings"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/repository"
	"github.com/google/uuid"
)

// GroceryService is the business logic layer for grocery lists.
type GroceryService struct {
	Cfg        *config.Config
	Repo       repository.GroceryRepo
	RecipeRepo repository.RecipeRepo
}

// NewGroceryService creates a new GroceryService.
func NewGroceryService(cfg *config.Config, repo repository.GroceryRepo, recipeRepo repository.RecipeRepo) *GroceryService {
	return &GroceryService{
		Cfg:        cfg,
		Repo:       repo,
		RecipeRepo: recipeRepo,
	}
}

// GroceryItemInput is the payload for adding a free-form item to a list.
type GroceryItemInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// CreateList creates a new, empty grocery list for the user.
func (s *GroceryService) CreateList(user *models.User, name string) (*models.GroceryList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("list name must not be empty")
	}

	list := &models.GroceryList{
		Name:    name,
		OwnerID: user.ID,
		Items:   models.GroceryItems{},
	}
	if err := s.Repo.CreateList(list); err != nil {
		return nil, fmt.Errorf("failed to create grocery list: %w", err)
	}

	return list, nil
}

// GetList fetches one of the user's grocery lists.
func (s *GroceryService) GetList(user *models.User, listID uint) (*models.GroceryList, error) {
	list, err := s.Repo.GetListByID(listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != user.ID {
		return nil, NewValidationError("grocery list does not belong to you")
	}
	return list, nil
}

// GetUserLists returns all of the user's grocery lists.
func (s *GroceryService) GetUserLists(user *models.User) ([]models.GroceryList, error) {
	return s.Repo.GetUserLists(user.ID)
}

// RenameList renames one of the user's grocery lists.
func (s *GroceryService) RenameList(user *models.User, listID uint, name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("list name must not be empty")
	}
	if _, err := s.GetList(user, listID); err != nil {
		return err
	}
	return s.Repo.UpdateListName(listID, name)
}

// DeleteList deletes one of the user's grocery lists.
func (s *GroceryService) DeleteList(user *models.User, listID uint) error {
	if _, err := s.GetList(user, listID); err != nil {
		return err
	}
	return s.Repo.DeleteList(listID)
}

// AddItems appends free-form items to a list.
func (s *GroceryService) AddItems(user *models.User, listID uint, inputs []GroceryItemInput) (*models.GroceryList, error) {
	list, err := s.GetList(user, listID)
	if err != nil {
		return nil, err
	}

	for _, input := range inputs {
		if strings.TrimSpace(input.Name) == "" {
			return nil, NewValidationError("item name must not be empty")
		}
		list.Items = append(list.Items, models.GroceryItem{
			ID:       uuid.New().String(),
			Name:     input.Name,
			Quantity: input.Quantity,
		})
	}

	if err := s.Repo.UpdateListItems(listID, list.Items); err != nil {
		return nil, fmt.Errorf("failed to add items: %w", err)
	}
	return list, nil
}

// AddRecipeIngredients appends every ingredient of a recipe to the list,
// tagged with the recipe's ID so the UI can group them.
func (s *GroceryService) AddRecipeIngredients(user *models.User, listID uint, recipeID string) (*models.GroceryList, error) {
	list, err := s.GetList(user, listID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.RecipeRepo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, err
	}

	for _, ing := range recipe.Ingredients {
		name := ing.OriginalText
		if name == "" {
			name = ing.Name
		}
		list.Items = append(list.Items, models.GroceryItem{
			ID:       uuid.New().String(),
			Name:     name,
			RecipeID: recipe.ID,
		})
	}

	if err := s.Repo.UpdateListItems(listID, list.Items); err != nil {
		return nil, fmt.Errorf("failed to add recipe ingredients: %w", err)
	}
	return list, nil
}

// SetItemChecked marks a single item as checked or unchecked.
func (s *GroceryService) SetItemChecked(user *models.User, listID uint, itemID string, checked bool) (*models.GroceryList, error) {
	list, err := s.GetList(user, listID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items[i].Checked = checked
			found = true
			break
		}
	}
	if !found {
		return nil, NewValidationError("item not found on this list")
	}

	if err := s.Repo.UpdateListItems(listID, list.Items); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return list, nil
}

// RemoveItem removes a single item from the list.
func (s *GroceryService) RemoveItem(user *models.User, listID uint, itemID string) (*models.GroceryList, error) {
	list, err := s.GetList(user, listID)
	if err != nil {
		return nil, err
	}

	items := make(models.GroceryItems, 0, len(list.Items))
	for _, item := range list.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	if len(items) == len(list.Items) {
		return nil, NewValidationError("item not found on this list")
	}
	list.Items = items

	if err := s.Repo.UpdateListItems(listID, list.Items); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	return list, nil
}
