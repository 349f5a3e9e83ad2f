package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tressahealth/moneyback/internal/types"
)

// RequestIDMiddleware attaches a request ID to the request context, reusing
// the caller-supplied X-Request-ID header when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			ctx = types.SetUserID(ctx, userID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
