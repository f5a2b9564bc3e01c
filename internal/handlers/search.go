package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/crumbapp/crumb-api/internal/logger"
	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler handles recipe search requests.
type SearchHandler struct {
	Service *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{Service: searchService}
}

// SearchRecipes handles GET /v1/recipes/search?q=...&ingredients=a,b&limit=20.
// Either q or ingredients must be supplied.
func (h *SearchHandler) SearchRecipes(c *gin.Context) {
	query := service.SearchQuery{
		Keyword: c.Query("q"),
	}
	if raw := c.Query("ingredients"); raw != "" {
		query.Ingredients = strings.Split(raw, ",")
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result, err := h.Service.Search(c.Request.Context(), query, limit)
	if err != nil {
		var validationErr service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		logger.Get().Error("failed to search recipes", zap.String("query", query.Keyword), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search recipes"})
		return
	}

	c.JSON(http.StatusOK, result)
}
