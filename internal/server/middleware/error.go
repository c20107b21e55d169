package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler is a custom error handling middleware that handles all errors returned by handlers
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// typed selection rejections map onto 422 with a reason code
		var selErr *domain.SelectionError
		if errors.As(err, &selErr) {
			c.JSON(http.StatusUnprocessableEntity, api.SelectionRejectedError(string(selErr.Reason), selErr.Provider))
			c.Abort()
			return
		}

		if errors.Is(err, domain.ErrCatalogUnavailable) {
			c.JSON(http.StatusServiceUnavailable, api.CatalogUnavailableError(err))
			c.Abort()
			return
		}

		var problem *api.Problem
		if errors.As(err, &problem) {
			// if there is an internal log attached, log it
			if problem.Log != nil {
				logger.Error("Request problem", zap.Error(problem.Log))
			}

			// RFC 9457 dictates the json is at the root
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		// unknown error, catch-all 500
		logger.Error("Unhandled error", zap.Error(err))

		c.JSON(http.StatusInternalServerError, api.NewError(
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred.",
		))

		c.Abort()
	}
}
