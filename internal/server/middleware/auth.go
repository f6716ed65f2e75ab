package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/looplj/mediahub/internal/objects"
)

// WithAPIKeyAuth rejects requests whose Authorization header does not
// carry the configured key. An empty configured key disables the check,
// which is the local-development mode.
func WithAPIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		presented := extractAPIKey(c.Request)
		if presented == "" {
			abortUnauthorized(c, "missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			abortUnauthorized(c, "invalid API key")
			return
		}

		c.Next()
	}
}

func extractAPIKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return auth
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, objects.ErrorResponse{
		Error: objects.Error{
			Type:    http.StatusText(http.StatusUnauthorized),
			Message: message,
		},
	})
}
