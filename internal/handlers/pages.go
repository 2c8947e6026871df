package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"afford-tracker/internal/middleware"
	"afford-tracker/internal/models"
)

// DashboardPath is where a user of the given role lands after login.
func DashboardPath(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return "/dashboard/admin"
	case models.RoleModerator:
		return "/dashboard/moderator"
	default:
		return "/dashboard/users"
	}
}

// IndexPage needs middleware.InjectUser in front of it.
func IndexPage(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	c.Redirect(http.StatusFound, DashboardPath(u.Role))
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
