package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"randevu-api/internal/auth"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "uid"

// Auth validates the bearer token (or the access_token cookie set by the
// login endpoint) and stores the user id on the context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				raw = cookie
			}
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token"})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
