package repository

import "github.com/crumbapp/crumb-api/internal/models"

// RecipeRepo is the interface for recipe repository operations. It doubles as
// the local cache store for provider results: UpsertMany and the two Find
// queries back the search fallback path.
type RecipeRepo interface {
	UpsertMany(recipes []models.Recipe) error
	FindByTitleSubstring(text string, limit int) ([]models.Recipe, error)
	FindByIngredients(names []string, limit int) ([]models.Recipe, error)
	CreateRecipe(recipe *models.Recipe) error
	GetRecipeByID(recipeID string) (*models.Recipe, error)
	GetUserRecipes(userID uint, page, pageSize int) ([]models.Recipe, int64, error)
	UpdateRecipe(recipe *models.Recipe) error
	DeleteRecipe(recipeID string) error
}

// GroceryRepo is the interface for grocery list repository operations.
type GroceryRepo interface {
	CreateList(list *models.GroceryList) error
	GetListByID(listID uint) (*models.GroceryList, error)
	GetUserLists(userID uint) ([]models.GroceryList, error)
	UpdateListName(listID uint, name string) error
	UpdateListItems(listID uint, items models.GroceryItems) error
	DeleteList(listID uint) error
}

// CollectionRepo is the interface for recipe collection repository operations.
type CollectionRepo interface {
	CreateCollection(collection *models.Collection) error
	GetCollectionByID(collectionID uint) (*models.Collection, error)
	GetUserCollections(userID uint) ([]models.Collection, error)
	UpdateCollectionName(collectionID uint, name string) error
	DeleteCollection(collectionID uint) error
	AddRecipeToCollection(collectionID uint, recipe *models.Recipe) error
	RemoveRecipeFromCollection(collectionID uint, recipe *models.Recipe) error
}

// UserRepo is the interface for user repository operations.
type UserRepo interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	GetUserAuthByUsername(username string) (*models.User, error)
	UsernameExists(username string) (bool, error)
}
