package handlers

import (
	"net/http"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/crumbapp/crumb-api/internal/util"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user account requests.
type UserHandler struct {
	Service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{Service: userService}
}

// CreateUser handles POST /v1/users. It validates the signup fields, creates
// the account, and returns the new user with an access token.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Service.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Service.CreateUser(req.Username, req.FirstName, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Failed to create user")
		return
	}

	token, err := h.Service.GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         service.ToUserResponse(user),
		"access_token": token,
	})
}

// LoginUser handles POST /v1/auth/login.
func (h *UserHandler) LoginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.Service.LoginUser(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := h.Service.GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         service.ToUserResponse(user),
		"access_token": token,
	})
}

// GetCurrentUser handles GET /v1/users/me.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": service.ToUserResponse(user)})
}

// CheckUsernameAvailability handles GET /v1/users/username-availability.
func (h *UserHandler) CheckUsernameAvailability(c *gin.Context) {
	username := c.Query("username")
	if err := h.Service.ValidateUsername(username); err != nil {
		c.JSON(http.StatusOK, gin.H{"available": false, "reason": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}
