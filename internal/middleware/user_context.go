package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"afford-tracker/internal/auth"
)

const currentUserKey = "CurrentUser"

// InjectUser puts the session's Identity on the context when there is one and
// never blocks the request.
func InjectUser(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := guard.ResolveSession(c.Request.Context(), sessions.Default(c)); err == nil {
			c.Set(currentUserKey, identity)
		}
		c.Next()
	}
}

// CurrentUser returns the Identity set by RequireAuth or InjectUser, or nil.
func CurrentUser(c *gin.Context) *auth.Identity {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
