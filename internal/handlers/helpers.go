package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/crumbapp/crumb-api/internal/repository"
	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/gin-gonic/gin"
)

// parseUintParam parses a string into a uint.
func parseUintParam(param string) (uint, error) {
	parsed, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed > uint64(^uint(0)) {
		return 0, fmt.Errorf("value out of range for uint: %d", parsed)
	}
	return uint(parsed), nil
}

// respondServiceError maps service-layer errors onto HTTP status codes:
// validation problems are 400, missing resources 404, anything else 500
// with a generic message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var validationErr service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	var notFoundErr repository.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
