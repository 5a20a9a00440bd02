package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"livestream-backend/infrastructure/configuration"
)

// WorkerAuth guards the internal routes used by the processing collaborator.
// A missing worker key in configuration disables the routes entirely.
func WorkerAuth(cfg configuration.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.GetHeader("X-Worker-Key")
		if cfg.App.WorkerKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.App.WorkerKey)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx.Next()
	}
}
