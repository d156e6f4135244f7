package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CredentialContextKey is where ExtractCredential stores the API key
const CredentialContextKey = "apiKey"

// ExtractCredential reads an optional API key from the Authorization
// header. Requests without one pass through; the crawl handler decides
// whether a key is required.
func ExtractCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			// Extract API key from "Bearer <key>" or just "<key>"
			apiKey := strings.TrimPrefix(authHeader, "Bearer ")
			apiKey = strings.TrimSpace(apiKey)
			c.Set(CredentialContextKey, apiKey)
		}
		c.Next()
	}
}
