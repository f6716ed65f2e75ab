package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/looplj/mediahub/internal/log"
)

// AccessLog logs one line per failed request: status, method, path,
// latency and the collected handler errors. Successful requests stay
// quiet unless debug logging is on.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()

		var errMsgs []string
		for _, e := range c.Errors {
			errMsgs = append(errMsgs, e.Error())
		}

		status := c.Writer.Status()

		fields := []log.Field{
			log.Int("status", status),
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.Duration("latency", time.Since(start)),
			log.String("client_ip", c.ClientIP()),
		}

		if len(errMsgs) > 0 {
			fields = append(fields, log.Strings("errors", errMsgs))
		}

		if status >= 400 || len(errMsgs) > 0 {
			log.Error(ctx, "[ACCESS]", fields...)
			return
		}

		if log.DebugEnabled(ctx) {
			log.Debug(ctx, "[ACCESS]", fields...)
		}
	}
}
