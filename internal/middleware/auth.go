package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stadium/internal/pkg/jwt"
	"stadium/internal/pkg/response"
)

// JWTAuth requires a valid bearer token and stores the operator and role
// claims on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("operator", claims.Operator)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth lets requests through unchanged. It stands in for JWTAuth
// when auth is disabled.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("operator", "anonymous")
		c.Set("role", jwt.RoleOperator)
		c.Next()
	}
}
