package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Timeout bounds the request context. Handlers pass it on to every blocking
// call; Error turns an expired deadline into 504.
func Timeout(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Error writes the envelope for errors recorded with c.Error.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, Res{
				Success: false,
				Error:   "request timed out",
			})
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors[0]

		// - Validation error from query binding
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			validationErrors := make([]ErrorType, 0, len(ve))
			for _, fe := range ve {
				validationErrors = append(validationErrors, ErrorType{
					Field:   fe.Field(),
					Message: fe.Error(),
				})
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, Res{
				Success: false,
				Error:   validationErrors,
			})
			return
		}

		// - Known error with its own status
		var ce CustomError
		if errors.As(err, &ce) {
			c.AbortWithStatusJSON(ce.StatusCode, Res{
				Success: false,
				Error:   ce.Error(),
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, Res{
			Success: false,
			Error:   err.Error(),
		})
	}
}
