package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

// ErrorResponse is the stable error body: {error, message}. Unanticipated
// failures surface as a generic internal error without detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler translates errors pushed onto the gin context into the stable
// error body, mapping the application error taxonomy onto status codes.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		lastErr := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(lastErr, &appErr) {
			c.JSON(appErr.StatusCode(), ErrorResponse{
				Error:   appErr.Label(),
				Message: appErr.Message,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "an unexpected error occurred",
		})
	}
}
