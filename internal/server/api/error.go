package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/log"
	"github.com/looplj/mediahub/internal/objects"
)

// JSONError returns a JSON error response and adds the error to the gin
// context for access logging.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.ErrorResponse{
		Error: objects.Error{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}

// GenerationError maps a pipeline error onto a status code and a short
// client message. The full detail, including any remote response body,
// goes to the log only.
func GenerationError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var (
		configErr     *gen.ConfigurationError
		validationErr *gen.ValidationError
		remoteErr     *gen.RemoteServiceError
		shapeErr      *gen.UnrecognizedResponseShapeError
	)

	switch {
	case errors.As(err, &configErr):
		JSONError(c, http.StatusNotFound, err)
	case errors.As(err, &validationErr):
		JSONError(c, http.StatusBadRequest, err)
	case errors.As(err, &remoteErr):
		log.Error(ctx, "remote generation service failed",
			log.Int("status", remoteErr.StatusCode),
			log.String("body", string(remoteErr.Body)),
		)

		switch {
		case remoteErr.RateLimited():
			JSONError(c, http.StatusTooManyRequests, errors.New("generation service is rate limiting, retry later"))
		case remoteErr.PayloadTooLarge():
			JSONError(c, http.StatusRequestEntityTooLarge, errors.New("request payload exceeds the service limit"))
		default:
			JSONError(c, http.StatusBadGateway, errors.New("generation service request failed"))
		}
	case errors.As(err, &shapeErr):
		log.Error(ctx, "unrecognized generation response", log.String("body", string(shapeErr.Raw)))
		JSONError(c, http.StatusBadGateway, errors.New("generation service returned an unrecognized response"))
	default:
		log.Error(ctx, "generation failed", log.Cause(err))
		JSONError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
