package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/auth"
	"github.com/yukikurage/todo-list-api/internal/constants"
	apierrors "github.com/yukikurage/todo-list-api/internal/errors"
)

// RequireAuth checks for a valid bearer token. A missing token is rejected with
// 401 and a token that fails verification with 403.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apierrors.InvalidToken(c, "Session expired, please log in again")
				return
			}
			apierrors.InvalidToken(c, "")
			return
		}

		// Store user identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserEmail, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	default:
		return 0, false
	}
}
