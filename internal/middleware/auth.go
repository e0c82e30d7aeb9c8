package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskmgmt/task-management-api/internal/errors"
	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/services"
)

// ContextKeyUser is the gin context key holding the authenticated user.
const ContextKeyUser = "current_user"

// RequireAuth authenticates requests via the Authorization bearer header.
// A request without the header is rejected with 403; a present but invalid
// or expired token with 401.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Forbidden(c, "Not authenticated")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the authenticated user from the context.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
