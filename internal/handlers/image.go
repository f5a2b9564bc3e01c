package handlers

import (
	"io"
	"net/http"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/util"
	"github.com/gin-gonic/gin"
)

// maxImageUploadSize caps recipe image uploads at 5 MB.
const maxImageUploadSize = 5 << 20

// ImageHandler handles recipe image uploads.
type ImageHandler struct {
	Service *service.RecipeService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(recipeService *service.RecipeService) *ImageHandler {
	return &ImageHandler{Service: recipeService}
}

// UploadRecipeImage handles POST /v1/recipes/:recipe_id/image. The image is
// sent as a multipart form file under the "image" field.
func (h *ImageHandler) UploadRecipeImage(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	if fileHeader.Size > maxImageUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the maximum allowed size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	defer file.Close()

	imgBytes, err := io.ReadAll(io.LimitReader(file, maxImageUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}

	recipe, err := h.Service.UploadRecipeImage(c.Request.Context(), user, c.Param("recipe_id"), imgBytes)
	if err != nil {
		respondServiceError(c, err, "Failed to upload recipe image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}
