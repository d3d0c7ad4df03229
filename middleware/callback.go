package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyCallbackToken authenticates gateway webhook deliveries. The gateway
// sends the shared secret in the x-callback-token header; anything else is
// rejected before the handler reads any state.
func VerifyCallbackToken(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("x-callback-token")
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid callback token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
