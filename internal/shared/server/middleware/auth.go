package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"magazine-backend/internal/shared/auth"
	"magazine-backend/internal/shared/server/respond"
)

const (
	adminIDKey   = "adminId"
	adminNameKey = "adminName"
	adminRoleKey = "adminRole"
)

// RequireAdmin validates the Bearer JWT issued to admin panel sessions and
// stores the admin identity in context. Token issuance lives outside this
// service; only verification happens here.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(adminIDKey, claims.Sub)
		if claims.Username != "" {
			c.Set(adminNameKey, claims.Username)
		}
		if claims.Role != "" {
			c.Set(adminRoleKey, claims.Role)
		}
		c.Next()
	}
}

// AdminIDFromContext fetches the admin ID set by RequireAdmin.
func AdminIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(adminIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
