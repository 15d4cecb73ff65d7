package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "authClaims"

// Middleware authenticates requests and enforces the required role.
func Middleware(tm *TokenManager, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		claims, err := tm.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// PrincipalID returns the authenticated user's ID from the request
// context. Zero when the request is unauthenticated.
func PrincipalID(c *gin.Context) int64 {
	v, ok := c.Get(claimsKey)
	if !ok {
		return 0
	}
	claims, ok := v.(*Claims)
	if !ok {
		return 0
	}
	return claims.UserID
}

func extractToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
