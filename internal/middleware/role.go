package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stadium/internal/pkg/jwt"
	"stadium/internal/pkg/response"
)

// RequireRole ensures that the authenticated caller has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if r, _ := role.(string); r != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// OperatorOnly middleware requires the operator role
func OperatorOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleOperator)
}
