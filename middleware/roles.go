package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
	"github.com/gin-gonic/gin"
)

// RequireRoles authorizes the request when the authenticated identity's role
// is one of the allowed roles. Comparison is exact and case-sensitive, there
// is no role hierarchy: every guard lists every role it accepts. Must run
// after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_required",
				"message": "Authentication is required before this action",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "insufficient_permissions",
			"message": fmt.Sprintf("This action requires one of the roles [%s], but your role is %q",
				strings.Join(roles, ", "), user.Role),
		})
	}
}

// RequireAdmin gates a route to admins only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// RequireAdminOrEditor gates a route to admins and editors.
func RequireAdminOrEditor() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleEditor)
}
