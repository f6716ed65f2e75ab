package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/looplj/mediahub/internal/log"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "MH-Request-Id"

const requestIDKey = "mediahub.request_id"

// WithRequestID assigns every request an id, echoes it in the response
// header, and scopes the logger to it so all later logs carry it.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		ctx := log.WithFields(c.Request.Context(), log.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestID returns the id assigned by WithRequestID.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
