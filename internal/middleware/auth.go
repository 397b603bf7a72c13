package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/minaharu/timebank-api/internal/constants"
	apierrors "github.com/minaharu/timebank-api/internal/errors"
	"github.com/minaharu/timebank-api/internal/identity"
)

// RequireAuth checks that a session holds a provider identity and exposes
// it to handlers via the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		uid, ok := session.Get(constants.SessionKeyUserID).(string)
		if !ok || uid == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		ident := identity.Identity{UID: uid}
		if name, ok := session.Get(constants.SessionKeyDisplayName).(string); ok {
			ident.DisplayName = name
		}
		if email, ok := session.Get(constants.SessionKeyEmail).(string); ok {
			ident.Email = email
		}

		c.Set(constants.ContextKeyIdentity, ident)
		c.Next()
	}
}

// GetIdentity retrieves the current user's identity from context
func GetIdentity(c *gin.Context) (identity.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return identity.Identity{}, false
	}

	ident, ok := value.(identity.Identity)
	if !ok || ident.UID == "" {
		return identity.Identity{}, false
	}
	return ident, true
}
