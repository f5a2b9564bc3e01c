package handlers

import (
	"net/http"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/util"
	"github.com/gin-gonic/gin"
)

// GroceryHandler handles grocery list requests.
type GroceryHandler struct {
	Service *service.GroceryService
}

// NewGroceryHandler creates a new GroceryHandler.
func NewGroceryHandler(groceryService *service.GroceryService) *GroceryHandler {
	return &GroceryHandler{Service: groceryService}
}

type listNameRequest struct {
	Name string `json:"name"`
}

// CreateList handles POST /v1/grocery-lists.
func (h *GroceryHandler) CreateList(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req listNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	list, err := h.Service.CreateList(user, req.Name)
	if err != nil {
		respondServiceError(c, err, "Failed to create grocery list")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"list": list})
}

// ListLists handles GET /v1/grocery-lists.
func (h *GroceryHandler) ListLists(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	lists, err := h.Service.GetUserLists(user)
	if err != nil {
		respondServiceError(c, err, "Failed to list grocery lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

// GetList handles GET /v1/grocery-lists/:list_id.
func (h *GroceryHandler) GetList(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	list, err := h.Service.GetList(user, listID)
	if err != nil {
		respondServiceError(c, err, "Failed to get grocery list")
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// RenameList handles PUT /v1/grocery-lists/:list_id.
func (h *GroceryHandler) RenameList(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	var req listNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Service.RenameList(user, listID, req.Name); err != nil {
		respondServiceError(c, err, "Failed to rename grocery list")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List renamed"})
}

// DeleteList handles DELETE /v1/grocery-lists/:list_id.
func (h *GroceryHandler) DeleteList(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	if err := h.Service.DeleteList(user, listID); err != nil {
		respondServiceError(c, err, "Failed to delete grocery list")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List deleted"})
}

// AddItems handles POST /v1/grocery-lists/:list_id/items.
func (h *GroceryHandler) AddItems(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	var req struct {
		Items []service.GroceryItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	list, err := h.Service.AddItems(user, listID, req.Items)
	if err != nil {
		respondServiceError(c, err, "Failed to add items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// AddRecipeIngredients handles POST /v1/grocery-lists/:list_id/recipes/:recipe_id.
func (h *GroceryHandler) AddRecipeIngredients(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	list, err := h.Service.AddRecipeIngredients(user, listID, c.Param("recipe_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to add recipe ingredients")
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// UpdateItem handles PUT /v1/grocery-lists/:list_id/items/:item_id.
func (h *GroceryHandler) UpdateItem(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	var req struct {
		Checked bool `json:"checked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	list, err := h.Service.SetItemChecked(user, listID, c.Param("item_id"), req.Checked)
	if err != nil {
		respondServiceError(c, err, "Failed to update item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// RemoveItem handles DELETE /v1/grocery-lists/:list_id/items/:item_id.
func (h *GroceryHandler) RemoveItem(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listID, err := parseUintParam(c.Param("list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	list, err := h.Service.RemoveItem(user, listID, c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}
