package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/domain/user"
	apperrors "github.com/govoyage/trip-sharing/pkg/errors"
)

// userKey is the gin context key the authenticated user is stored under
const userKey = "auth.user"

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// RequireAuth rejects requests without a valid bearer token. Both
// "Token <x>" and "Bearer <x>" Authorization schemes are accepted.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c)
			return
		}

		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userKey, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

func extractToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	appErr := apperrors.ErrInvalidToken
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
