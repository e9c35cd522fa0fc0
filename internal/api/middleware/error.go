package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientcrud/internal/api/dto"
	"github.com/sirupsen/logrus"
)

// ErrorHandlerMiddleware turns panics and errors attached with c.Error into
// a 500 ErrorResponse, unless the handler already wrote a response.
func ErrorHandlerMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithField("panic", err).WithField("path", c.Request.URL.Path).Error("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:   "Internal Server Error",
					Message: "An unexpected error occurred",
					Code:    http.StatusInternalServerError,
				})
			}
		}()

		c.Next()

		// Check if there are any errors
		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal Server Error",
				Message: err.Error(),
				Code:    http.StatusInternalServerError,
			})
		}
	}
}
