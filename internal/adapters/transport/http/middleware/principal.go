package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Miraines/hoops-auth/internal/domain/auth/jwt"
)

const principalKey = "auth.userID"

// TokenVerifier is the part of the token codec the middleware needs.
type TokenVerifier interface {
	Verify(token string) (jwt.Claims, error)
}

// Principal reads an optional "Authorization: Bearer <access token>" header.
// A valid, unexpired access token puts its subject into the request context;
// anything else leaves the request anonymous. Handlers that need a user
// check UserID.
func Principal(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		claims, err := v.Verify(raw)
		if err != nil || claims.TokenType == jwt.TokenTypeRefresh {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || id <= 0 {
			c.Next()
			return
		}
		c.Set(principalKey, id)
		c.Next()
	}
}

// UserID returns the authenticated user of the request, if any.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
