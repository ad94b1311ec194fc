package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readinghub-backend/internal/shared/auth"
	"readinghub-backend/pkg/jwt"
)

const authContextKey = "authContext"

// AuthMiddleware validates the bearer token and stores an explicit
// auth.Context for handlers to pass into the services.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid user ID in token"})
			c.Abort()
			return
		}

		c.Set(authContextKey, auth.Context{UserID: userID, Role: claims.Role})
		c.Next()
	}
}

// AuthFromContext returns the auth.Context set by AuthMiddleware.
func AuthFromContext(c *gin.Context) (auth.Context, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return auth.Context{}, false
	}
	actor, ok := v.(auth.Context)
	return actor, ok
}
