package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
)

// Context keys populated for authenticated requests.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// Auth verifies the bearer token and that its subject still exists, then
// stores the subject id and username on the request context. Stale, invalid
// and expired tokens are rejected before any engine operation runs.
func Auth(cfg configuration.Config, users repository.IUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.GetHeader("Authorization")
		if authorization == "" || !strings.HasPrefix(authorization, "Bearer ") {
			abortUnauthorized(ctx, "Authorization token missing")
			return
		}
		raw := strings.TrimPrefix(authorization, "Bearer ")

		var claims model.UserClaims
		token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.App.SecretKey), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(ctx, classifyTokenError(err))
			return
		}

		id, err := parseSubject(claims.ID)
		if err != nil {
			abortUnauthorized(ctx, "Invalid token")
			return
		}
		if _, err := users.GetByID(ctx.Request.Context(), id); err != nil {
			abortUnauthorized(ctx, "User not found")
			return
		}

		ctx.Set(CtxUserID, claims.ID)
		ctx.Set(CtxUsername, claims.Username)
		ctx.Next()
	}
}

func parseSubject(id string) (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(id)
}

func classifyTokenError(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "Invalid token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "Token expired"
		}
	}
	return "Authentication failed"
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}
