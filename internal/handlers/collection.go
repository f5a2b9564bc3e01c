package handlers

import (
	"net/http"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/util"
	"github.com/gin-gonic/gin"
)

// CollectionHandler handles recipe collection requests.
type CollectionHandler struct {
	Service *service.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionService *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{Service: collectionService}
}

// CreateCollection handles POST /v1/collections.
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
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

	collection, err := h.Service.CreateCollection(user, req.Name)
	if err != nil {
		respondServiceError(c, err, "Failed to create collection")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"collection": collection})
}

// ListCollections handles GET /v1/collections.
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	collections, err := h.Service.GetUserCollections(user)
	if err != nil {
		respondServiceError(c, err, "Failed to list collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

// GetCollection handles GET /v1/collections/:collection_id.
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	collectionID, err := parseUintParam(c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	collection, err := h.Service.GetCollection(user, collectionID)
	if err != nil {
		respondServiceError(c, err, "Failed to get collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

// RenameCollection handles PUT /v1/collections/:collection_id.
func (h *CollectionHandler) RenameCollection(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	collectionID, err := parseUintParam(c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	var req listNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Service.RenameCollection(user, collectionID, req.Name); err != nil {
		respondServiceError(c, err, "Failed to rename collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection renamed"})
}

// DeleteCollection handles DELETE /v1/collections/:collection_id.
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	collectionID, err := parseUintParam(c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	if err := h.Service.DeleteCollection(user, collectionID); err != nil {
		respondServiceError(c, err, "Failed to delete collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted"})
}

// AddRecipe handles POST /v1/collections/:collection_id/recipes/:recipe_id.
func (h *CollectionHandler) AddRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	collectionID, err := parseUintParam(c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	if err := h.Service.AddRecipe(user, collectionID, c.Param("recipe_id")); err != nil {
		respondServiceError(c, err, "Failed to add recipe to collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe added to collection"})
}

// RemoveRecipe handles DELETE /v1/collections/:collection_id/recipes/:recipe_id.
func (h *CollectionHandler) RemoveRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	collectionID, err := parseUintParam(c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID"})
		return
	}

	if err := h.Service.RemoveRecipe(user, collectionID, c.Param("recipe_id")); err != nil {
		respondServiceError(c, err, "Failed to remove recipe from collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe removed from collection"})
}
