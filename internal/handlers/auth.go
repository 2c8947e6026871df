package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"afford-tracker/internal/auth"
	"afford-tracker/internal/middleware"
	"afford-tracker/internal/models"
)

// ShowSignup describes the signup form, including the selectable cities.
func ShowSignup(c *gin.Context) {
	render(c, http.StatusOK, gin.H{
		"fields": []string{"firstName", "lastName", "username", "password", "city"},
		"cities": models.Cities,
	})
}

func (h *Handler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, badRequest("malformed signup form"))
		return
	}

	if _, err := h.accounts.Signup(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, badRequest("malformed login form"))
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := auth.StartSession(sessions.Default(c), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, DashboardPath(user.Role))
}

func Logout(c *gin.Context) {
	_ = auth.EndSession(sessions.Default(c))
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
