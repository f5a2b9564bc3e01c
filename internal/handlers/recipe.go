package handlers

import (
	"net/http"
	"strconv"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/util"
	"github.com/gin-gonic/gin"
)

// RecipeHandler handles requests for user-authored recipes.
type RecipeHandler struct {
	Service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Service: recipeService}
}

// CreateRecipe handles POST /v1/recipes.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	recipe, err := h.Service.CreateRecipe(user, input)
	if err != nil {
		respondServiceError(c, err, "Failed to create recipe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// GetRecipe handles GET /v1/recipes/:recipe_id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.Service.GetRecipeByID(c.Param("recipe_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// ListRecipes handles GET /v1/recipes?page=1&page_size=20.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.Query("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}

	recipes, total, err := h.Service.GetUserRecipes(user.ID, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "Failed to list recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   total,
		"page":    page,
	})
}

// UpdateRecipe handles PUT /v1/recipes/:recipe_id.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	recipe, err := h.Service.UpdateRecipe(user, c.Param("recipe_id"), input)
	if err != nil {
		respondServiceError(c, err, "Failed to update recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// DeleteRecipe handles DELETE /v1/recipes/:recipe_id.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.DeleteRecipe(c.Request.Context(), user, c.Param("recipe_id")); err != nil {
		respondServiceError(c, err, "Failed to delete recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}
