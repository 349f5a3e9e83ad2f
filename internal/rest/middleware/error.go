package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// ErrorHandler converts errors attached via c.Error into the standard JSON
// error body, with the status derived from the error's classification.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatus(err), ierr.NewErrorResponse(err))
	}
}
