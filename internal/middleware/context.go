package middleware

import (
	"net/http"

	"github.com/crumbapp/crumb-api/internal/service"
	"github.com/gin-gonic/gin"
)

// AttachUserToContext loads the authenticated user and stores it in the gin
// context under "user". Must run after VerifyTokenMiddleware.
func AttachUserToContext(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get("user_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No user ID in context"})
			c.Abort()
			return
		}

		userID, ok := val.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID in context"})
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
