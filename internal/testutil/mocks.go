package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crumbapp/crumb-api/internal/models"
	"github.com/crumbapp/crumb-api/internal/provider"
	"github.com/crumbapp/crumb-api/internal/repository"
)

// --- MockRecipeProvider ---

// MockRecipeProvider is a mock implementation of provider.RecipeProvider.
type MockRecipeProvider struct {
	SearchByKeywordFunc     func(ctx context.Context, text string, limit int) ([]provider.RecipeData, error)
	SearchByIngredientsFunc func(ctx context.Context, names []string, limit int) ([]provider.RecipeData, error)

	mu                  sync.Mutex
	KeywordCalls        int
	IngredientCalls     int
}

func (m *MockRecipeProvider) SearchByKeyword(ctx context.Context, text string, limit int) ([]provider.RecipeData, error) {
	m.mu.Lock()
	m.KeywordCalls++
	m.mu.Unlock()
	if m.SearchByKeywordFunc != nil {
		return m.SearchByKeywordFunc(ctx, text, limit)
	}
	return nil, fmt.Errorf("SearchByKeyword not configured")
}

func (m *MockRecipeProvider) SearchByIngredients(ctx context.Context, names []string, limit int) ([]provider.RecipeData, error) {
	m.mu.Lock()
	m.IngredientCalls++
	m.mu.Unlock()
	if m.SearchByIngredientsFunc != nil {
		return m.SearchByIngredientsFunc(ctx, names, limit)
	}
	return nil, fmt.Errorf("SearchByIngredients not configured")
}

// Calls returns the total number of provider calls made.
func (m *MockRecipeProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.KeywordCalls + m.IngredientCalls
}

// --- MockExtractionProvider ---

// MockExtractionProvider is a mock implementation of provider.ExtractionProvider.
type MockExtractionProvider struct {
	ExtractRecipeFunc func(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error)
}

func (m *MockExtractionProvider) ExtractRecipe(ctx context.Context, content string, sourceURL string) (*provider.RecipeData, error) {
	if m.ExtractRecipeFunc != nil {
		return m.ExtractRecipeFunc(ctx, content, sourceURL)
	}
	return nil, fmt.Errorf("ExtractRecipe not configured")
}

// --- MockRecipeRepo ---

// MockRecipeRepo is an in-memory mock implementation of repository.RecipeRepo.
// Upserts are signalled on the Upserted channel so tests can wait for the
// detached cache write without sleeping.
type MockRecipeRepo struct {
	mu      sync.Mutex
	Recipes map[string]*models.Recipe

	// Upserted receives one send per UpsertMany call after it completes.
	Upserted chan struct{}

	// UpsertDelay, when set, makes UpsertMany block before writing. Used to
	// prove the search path does not wait on the cache write.
	UpsertDelay time.Duration

	// Error overrides: set these to force specific methods to return errors.
	UpsertManyErr           error
	FindByTitleSubstringErr error
	FindByIngredientsErr    error
	CreateRecipeErr         error
	GetRecipeByIDErr        error
	UpdateRecipeErr         error
	DeleteRecipeErr         error
}

// NewMockRecipeRepo creates a new MockRecipeRepo with initialized state.
func NewMockRecipeRepo() *MockRecipeRepo {
	return &MockRecipeRepo{
		Recipes:  make(map[string]*models.Recipe),
		Upserted: make(chan struct{}, 16),
	}
}

func (m *MockRecipeRepo) UpsertMany(recipes []models.Recipe) error {
	if m.UpsertDelay > 0 {
		time.Sleep(m.UpsertDelay)
	}
	if m.UpsertManyErr != nil {
		return m.UpsertManyErr
	}
	m.mu.Lock()
	now := time.Now()
	for i := range recipes {
		r := recipes[i]
		r.CachedAt = now
		r.RefreshIngredientText()
		m.Recipes[r.ID] = &r
	}
	m.mu.Unlock()

	select {
	case m.Upserted <- struct{}{}:
	default:
	}
	return nil
}

func (m *MockRecipeRepo) FindByTitleSubstring(text string, limit int) ([]models.Recipe, error) {
	if m.FindByTitleSubstringErr != nil {
		return nil, m.FindByTitleSubstringErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []models.Recipe
	for _, r := range m.Recipes {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(text)) {
			matches = append(matches, *r)
		}
	}
	sortByCachedAtDesc(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MockRecipeRepo) FindByIngredients(names []string, limit int) ([]models.Recipe, error) {
	if m.FindByIngredientsErr != nil {
		return nil, m.FindByIngredientsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []models.Recipe
	for _, r := range m.Recipes {
		for _, name := range names {
			if ingredientTextContains(r, name) {
				matches = append(matches, *r)
				break
			}
		}
	}
	sortByCachedAtDesc(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MockRecipeRepo) CreateRecipe(recipe *models.Recipe) error {
	if m.CreateRecipeErr != nil {
		return m.CreateRecipeErr
	}
	recipe.RefreshIngredientText()
	recipe.CachedAt = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Recipes[recipe.ID] = recipe
	return nil
}

func (m *MockRecipeRepo) GetRecipeByID(recipeID string) (*models.Recipe, error) {
	if m.GetRecipeByIDErr != nil {
		return nil, m.GetRecipeByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Recipes[recipeID]
	if !ok {
		return nil, repository.NewNotFoundError("recipe not found")
	}
	return r, nil
}

func (m *MockRecipeRepo) GetUserRecipes(userID uint, page, pageSize int) ([]models.Recipe, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var recipes []models.Recipe
	for _, r := range m.Recipes {
		if r.Source == models.SourceUser && r.OwnerID != nil && *r.OwnerID == userID {
			recipes = append(recipes, *r)
		}
	}
	total := int64(len(recipes))

	start := (page - 1) * pageSize
	if start >= len(recipes) {
		return []models.Recipe{}, total, nil
	}
	end := start + pageSize
	if end > len(recipes) {
		end = len(recipes)
	}
	return recipes[start:end], total, nil
}

func (m *MockRecipeRepo) UpdateRecipe(recipe *models.Recipe) error {
	if m.UpdateRecipeErr != nil {
		return m.UpdateRecipeErr
	}
	recipe.RefreshIngredientText()
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Recipes[recipe.ID]; !ok {
		return repository.NewNotFoundError("recipe not found")
	}
	m.Recipes[recipe.ID] = recipe
	return nil
}

func (m *MockRecipeRepo) DeleteRecipe(recipeID string) error {
	if m.DeleteRecipeErr != nil {
		return m.DeleteRecipeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Recipes, recipeID)
	return nil
}

// Count returns the number of stored recipes.
func (m *MockRecipeRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Recipes)
}

func sortByCachedAtDesc(recipes []models.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].CachedAt.After(recipes[j].CachedAt)
	})
}

func ingredientTextContains(r *models.Recipe, name string) bool {
	needle := strings.ToLower(name)
	for _, line := range r.IngredientText {
		if strings.Contains(line, needle) {
			return true
		}
	}
	return false
}

// --- MockGroceryRepo ---

// MockGroceryRepo is an in-memory mock implementation of repository.GroceryRepo.
type MockGroceryRepo struct {
	mu     sync.Mutex
	Lists  map[uint]*models.GroceryList
	NextID uint

	CreateListErr      error
	GetListByIDErr     error
	UpdateListItemsErr error
}

// NewMockGroceryRepo creates a new MockGroceryRepo with initialized maps.
func NewMockGroceryRepo() *MockGroceryRepo {
	return &MockGroceryRepo{
		Lists:  make(map[uint]*models.GroceryList),
		NextID: 1,
	}
}

func (m *MockGroceryRepo) CreateList(list *models.GroceryList) error {
	if m.CreateListErr != nil {
		return m.CreateListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list.ID = m.NextID
	m.NextID++
	m.Lists[list.ID] = list
	return nil
}

func (m *MockGroceryRepo) GetListByID(listID uint) (*models.GroceryList, error) {
	if m.GetListByIDErr != nil {
		return nil, m.GetListByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.Lists[listID]
	if !ok {
		return nil, repository.NewNotFoundError("grocery list not found")
	}
	return list, nil
}

func (m *MockGroceryRepo) GetUserLists(userID uint) ([]models.GroceryList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lists []models.GroceryList
	for _, l := range m.Lists {
		if l.OwnerID == userID {
			lists = append(lists, *l)
		}
	}
	return lists, nil
}

func (m *MockGroceryRepo) UpdateListName(listID uint, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.Lists[listID]
	if !ok {
		return repository.NewNotFoundError("grocery list not found")
	}
	list.Name = name
	return nil
}

func (m *MockGroceryRepo) UpdateListItems(listID uint, items models.GroceryItems) error {
	if m.UpdateListItemsErr != nil {
		return m.UpdateListItemsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.Lists[listID]
	if !ok {
		return repository.NewNotFoundError("grocery list not found")
	}
	list.Items = items
	return nil
}

func (m *MockGroceryRepo) DeleteList(listID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Lists, listID)
	return nil
}

// --- MockCollectionRepo ---

// MockCollectionRepo is an in-memory mock implementation of repository.CollectionRepo.
type MockCollectionRepo struct {
	mu          sync.Mutex
	Collections map[uint]*models.Collection
	NextID      uint

	CreateCollectionErr error
}

// NewMockCollectionRepo creates a new MockCollectionRepo with initialized maps.
func NewMockCollectionRepo() *MockCollectionRepo {
	return &MockCollectionRepo{
		Collections: make(map[uint]*models.Collection),
		NextID:      1,
	}
}

func (m *MockCollectionRepo) CreateCollection(collection *models.Collection) error {
	if m.CreateCollectionErr != nil {
		return m.CreateCollectionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	collection.ID = m.NextID
	m.NextID++
	m.Collections[collection.ID] = collection
	return nil
}

func (m *MockCollectionRepo) GetCollectionByID(collectionID uint) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Collections[collectionID]
	if !ok {
		return nil, repository.NewNotFoundError("collection not found")
	}
	return c, nil
}

func (m *MockCollectionRepo) GetUserCollections(userID uint) ([]models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var collections []models.Collection
	for _, c := range m.Collections {
		if c.OwnerID == userID {
			collections = append(collections, *c)
		}
	}
	return collections, nil
}

func (m *MockCollectionRepo) UpdateCollectionName(collectionID uint, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Collections[collectionID]
	if !ok {
		return repository.NewNotFoundError("collection not found")
	}
	c.Name = name
	return nil
}

func (m *MockCollectionRepo) DeleteCollection(collectionID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Collections, collectionID)
	return nil
}

func (m *MockCollectionRepo) AddRecipeToCollection(collectionID uint, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Collections[collectionID]
	if !ok {
		return repository.NewNotFoundError("collection not found")
	}
	for _, r := range c.Recipes {
		if r.ID == recipe.ID {
			return nil
		}
	}
	c.Recipes = append(c.Recipes, recipe)
	return nil
}

func (m *MockCollectionRepo) RemoveRecipeFromCollection(collectionID uint, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Collections[collectionID]
	if !ok {
		return repository.NewNotFoundError("collection not found")
	}
	for i, r := range c.Recipes {
		if r.ID == recipe.ID {
			c.Recipes = append(c.Recipes[:i], c.Recipes[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- MockUserRepo ---

// MockUserRepo is an in-memory mock implementation of repository.UserRepo.
type MockUserRepo struct {
	mu     sync.Mutex
	Users  map[uint]*models.User
	NextID uint

	CreateUserErr error
}

// NewMockUserRepo creates a new MockUserRepo with initialized maps.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		Users:  make(map[uint]*models.User),
		NextID: 1,
	}
}

func (m *MockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	if m.CreateUserErr != nil {
		return nil, m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return user, nil
}

func (m *MockUserRepo) GetUserByID(userID uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[userID]
	if !ok {
		return nil, repository.NewNotFoundError("user not found")
	}
	return u, nil
}

func (m *MockUserRepo) GetUserAuthByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.NewNotFoundError("user not found")
}

func (m *MockUserRepo) UsernameExists(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}
