package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/models"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
	"github.com/noah-isme/placement-tracker-api/pkg/response"
)

// RequireRoles rejects requests whose role is not listed. Finer per-record checks stay in the services.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to access this resource"))
			c.Abort()
			return
		}
		c.Next()
	}
}
