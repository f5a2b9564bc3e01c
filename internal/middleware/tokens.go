package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// VerifyTokenMiddleware authenticates requests using the bearer token in the
// Authorization header. On success the authenticated user's ID is stored in
// the gin context under "user_id".
func VerifyTokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			c.Abort()
			return
		}

		userID, err := parseAccessToken(tokenString, cfg.EnvVars.JwtSecretKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("authorization header is required")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("bearer token is required")
	}
	return token, nil
}

// parseAccessToken validates an HS256-signed access token and returns the
// user ID embedded in its claims. Refresh tokens are rejected.
func parseAccessToken(tokenString, secret string) (uint, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("token is not valid")
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return 0, fmt.Errorf("token is not an access token")
	}

	// JSON numbers decode as float64
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("token has no user_id claim")
	}
	return uint(idFloat), nil
}
