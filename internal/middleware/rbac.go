package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ssp-api/internal/models"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
	"github.com/noah-isme/ssp-api/pkg/response"
)

// RBAC enforces role-based access control for routes. ROOT passes every check.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed)+1)
	for _, a := range allowed {
		allowedRoles[models.UserRole(a)] = struct{}{}
	}
	allowedRoles[models.RoleRoot] = struct{}{}

	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		switch {
		case claims == nil:
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
		case !roleAllowed(allowedRoles, claims.Role):
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not access this route"))
			c.Abort()
		default:
			c.Next()
		}
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}

func roleAllowed(allowed map[models.UserRole]struct{}, role models.UserRole) bool {
	_, ok := allowed[role]
	return ok
}
