package service

import (
	"errors"
	"testing"
	"time"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/testutil"
)

func newTestGroceryService(repo *testutil.MockGroceryRepo, recipeRepo *testutil.MockRecipeRepo) *GroceryService {
	return &GroceryService{
		Cfg:        &config.Config{},
		Repo:       repo,
		RecipeRepo: recipeRepo,
	}
}

func TestCreateList(t *testing.T) {
	repo := testutil.NewMockGroceryRepo()
	svc := newTestGroceryService(repo, testutil.NewMockRecipeRepo())
	user := testutil.TestUser()

	list, err := svc.CreateList(user, "Weekly Shop")
	if err != nil {
		t.Fatalf("CreateList error: %v", err)
	}
	if list.OwnerID != user.ID {
		t.Errorf("owner = %d, want %d", list.OwnerID, user.ID)
	}
	if len(list.Items) != 0 {
		t.Errorf("new list has %d items, want 0", len(list.Items))
	}

	_, err = svc.CreateList(user, "   ")
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("blank name: error = %v, want ValidationError", err)
	}
}

func TestGetList_RejectsOtherUsers(t *testing.T) {
	repo := testutil.NewMockGroceryRepo()
	svc := newTestGroceryService(repo, testutil.NewMockRecipeRepo())
	owner := testutil.TestUser()

	list, err := svc.CreateList(owner, "Weekly Shop")
	if err != nil {
		t.Fatalf("CreateList error: %v", err)
	}

	other := testutil.TestUser()
	other.ID = 99
	if _, err := svc.GetList(other, list.ID); err == nil {
		t.Fatal("expected error when another user reads the list")
	}
}

func TestAddItemsAndToggle(t *testing.T) {
	repo := testutil.NewMockGroceryRepo()
	svc := newTestGroceryService(repo, testutil.NewMockRecipeRepo())
	user := testutil.TestUser()

	list, err := svc.CreateList(user, "Weekly Shop")
	if err != nil {
		t.Fatalf("CreateList error: %v", err)
	}

	list, err = svc.AddItems(user, list.ID, []GroceryItemInput{
		{Name: "milk", Quantity: "1L"},
		{Name: "eggs", Quantity: "12"},
	})
	if err != nil {
		t.Fatalf("AddItems error: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(list.Items))
	}
	if list.Items[0].ID == "" || list.Items[0].ID == list.Items[1].ID {
		t.Error("items must get distinct generated IDs")
	}

	list, err = svc.SetItemChecked(user, list.ID, list.Items[0].ID, true)
	if err != nil {
		t.Fatalf("SetItemChecked error: %v", err)
	}
	if !list.Items[0].Checked {
		t.Error("item not marked checked")
	}

	_, err = svc.SetItemChecked(user, list.ID, "no-such-item", true)
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("unknown item: error = %v, want ValidationError", err)
	}
}

func TestAddRecipeIngredients(t *testing.T) {
	repo := testutil.NewMockGroceryRepo()
	recipeRepo := testutil.NewMockRecipeRepo()
	cached := testutil.TestCachedRecipe("sp-7", "Garlic Spaghetti", time.Now())
	recipeRepo.Recipes[cached.ID] = &cached

	svc := newTestGroceryService(repo, recipeRepo)
	user := testutil.TestUser()

	list, err := svc.CreateList(user, "Weekly Shop")
	if err != nil {
		t.Fatalf("CreateList error: %v", err)
	}

	list, err = svc.AddRecipeIngredients(user, list.ID, "sp-7")
	if err != nil {
		t.Fatalf("AddRecipeIngredients error: %v", err)
	}
	if len(list.Items) != len(cached.Ingredients) {
		t.Fatalf("items = %d, want %d", len(list.Items), len(cached.Ingredients))
	}
	for _, item := range list.Items {
		if item.RecipeID != "sp-7" {
			t.Errorf("item %q recipe tag = %q, want sp-7", item.Name, item.RecipeID)
		}
	}
}

func TestRemoveItem(t *testing.T) {
	repo := testutil.NewMockGroceryRepo()
	svc := newTestGroceryService(repo, testutil.NewMockRecipeRepo())
	user := testutil.TestUser()

	list, err := svc.CreateList(user, "Weekly Shop")
	if err != nil {
		t.Fatalf("CreateList error: %v", err)
	}
	list, err = svc.AddItems(user, list.ID, []GroceryItemInput{{Name: "milk"}})
	if err != nil {
		t.Fatalf("AddItems error: %v", err)
	}

	list, err = svc.RemoveItem(user, list.ID, list.Items[0].ID)
	if err != nil {
		t.Fatalf("RemoveItem error: %v", err)
	}
	if len(list.Items) != 0 {
		t.Errorf("items = %d, want 0", len(list.Items))
	}
}
