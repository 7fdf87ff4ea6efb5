package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

// AccessTokenParser validates an access token and returns its user ID
type AccessTokenParser interface {
	ParseAccessToken(tokenString string) (string, error)
}

// RequireAuth accepts an "Authorization: Bearer <token>" header and falls back
// to the user ID stored in the session cookie.
func RequireAuth(tokens AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				apierrors.Unauthorized(c, "Malformed authorization header")
				return
			}

			userID, err := tokens.ParseAccessToken(strings.TrimSpace(raw))
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}

			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		userID, ok := sessionUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

func sessionUserID(c *gin.Context) (string, bool) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return "", false
	}
	userID, ok := sessions.Default(c).Get(constants.SessionKeyUserID).(string)
	return userID, ok && userID != ""
}
