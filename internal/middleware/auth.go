package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "trainbook/internal/pkg/jwt"
)

// SessionCookie is the cookie carrying the session JWT.
const SessionCookie = "session"

// Session extracts the authenticated user id from the session cookie or a
// Bearer token and stores it in the request context. It never rejects the
// request: anonymous callers may still resolve an actor through the TG-ID
// header, and that decision belongs to the booking module, not here.
func Session(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := sessionToken(c); token != "" {
			if claims, err := jwt.ValidateToken(token); err == nil {
				c.Set("user_id", claims.UserID)
			}
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
