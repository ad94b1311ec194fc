package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ModeratorMiddleware rejects requests from actors without moderation rights.
// Must run after AuthMiddleware.
func ModeratorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := AuthFromContext(c)
		if !ok || !actor.IsModerator() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: moderator role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
