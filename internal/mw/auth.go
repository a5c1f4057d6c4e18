package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hostel-allotment-backend/internal/auth"
	"hostel-allotment-backend/internal/store"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// Auth verifies the bearer token and stores the caller's user id in the
// request context.
func Auth(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in first"})
			return
		}
		userID, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// AdminOnly requires the authenticated caller to be an operator account.
// Must run after Auth.
func AdminOnly(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		ok, err := s.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "try again later"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
