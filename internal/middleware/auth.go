package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainUser "restaurant-review-api/internal/domain/user"
	"restaurant-review-api/internal/logger"
	appErrors "restaurant-review-api/pkg/errors"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// Authenticator loads the account behind a verified session token.
type Authenticator interface {
	Authenticate(ctx context.Context, userID uint) (*domainUser.User, error)
}

// AuthMiddleware requires a valid bearer token whose subject still exists.
// The user id and the loaded user are stored on the context.
func AuthMiddleware(secret string, users Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.Authenticate(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, appErrors.ErrUnauthorized) {
				logger.Error("Failed to load session user",
					zap.String("request_id", GetRequestID(c)),
					zap.Uint("user_id", userID),
					zap.Error(err),
				)
			}
			utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.ErrUnauthorized.Error())
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func CurrentUser(c *gin.Context) (*domainUser.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*domainUser.User)
	return u, ok
}
