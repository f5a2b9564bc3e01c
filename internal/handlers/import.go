package handlers

import (
	"net/http"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/util"
	"github.com/gin-gonic/gin"
)

// ImportHandler handles recipe import requests.
type ImportHandler struct {
	Service *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{Service: importService}
}

// ImportRecipe handles POST /v1/recipes/import. It fetches the page at the
// given URL, extracts a structured recipe from it, and saves it to the
// requesting user's recipes.
func (h *ImportHandler) ImportRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	recipe, err := h.Service.ImportFromURL(c.Request.Context(), req.URL, user)
	if err != nil {
		respondServiceError(c, err, "Failed to import recipe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}
