package auth

import "github.com/gin-gonic/gin"

const clientKey = "authClient"

// GetClient returns the authenticated client name or empty string.
func GetClient(c *gin.Context) string {
	if v, ok := c.Get(clientKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
