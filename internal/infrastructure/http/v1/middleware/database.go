package middleware

import (
	"github.com/gin-gonic/gin"

	"atithi/internal/infrastructure/storage/postgres"
)

// Database middleware injects the transaction manager into the request
// context. Repositories resolve their querier from it, so every handler
// below this middleware can run domain operations without explicit
// plumbing.
func Database(txManager *postgres.TxManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := postgres.WithTxManager(c.Request.Context(), txManager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
