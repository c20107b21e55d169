package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/pkg/api"
)

// Auth checks for a valid Bearer token in the Authorization header.
// With no keys configured the API is open (local/dev deployments).
func Auth(keys []string) gin.HandlerFunc {
	keyMap := make(map[string]bool, len(keys))
	for _, k := range keys {
		keyMap[k] = true
	}

	return func(c *gin.Context) {
		if len(keyMap) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Missing Authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Invalid Authorization header format"))
			return
		}

		if !keyMap[parts[1]] {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.UnauthorizedError("Invalid API key"))
			return
		}

		c.Next()
	}
}
