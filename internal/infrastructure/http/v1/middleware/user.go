package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "atithi/internal/core/context"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// UserContext middleware extracts the acting staff member from request
// headers. Authentication happens upstream (gateway / PMS session
// service); the backend only records who acted for audit fields.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.Next()
			return
		}

		user := &appctx.UserContext{
			UserID: userID,
			Email:  c.GetHeader(HeaderUserEmail),
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", userID)

		c.Next()
	}
}
