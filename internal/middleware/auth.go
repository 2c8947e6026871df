package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/auth"
	"afford-tracker/internal/models"
)

const LoginPath = "/login"

// RequireAuth resolves the session into a fresh Identity and stores it on the
// context. Requests without a valid session are sent to the login page.
func RequireAuth(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := guard.ResolveSession(c.Request.Context(), sessions.Default(c))
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
			log.Printf("resolve session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(currentUserKey, identity)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(CurrentUser(c), roles...); err != nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
