package server

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"afford-tracker/internal/auth"
	"afford-tracker/internal/handlers"
	"afford-tracker/internal/middleware"
	"afford-tracker/internal/models"
	"afford-tracker/internal/ratelimit"
)

// UploadsPath is where locally stored attachments are served from.
const UploadsPath = "/uploads"

type Deps struct {
	Guard    *auth.Guard
	Handler  *handlers.Handler
	Sessions sessions.Store
	Limiter  ratelimit.Limiter

	// UploadDir is served under UploadsPath when set.
	UploadDir string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	if deps.UploadDir != "" {
		r.Static(UploadsPath, deps.UploadDir)
	}

	r.Use(sessions.Sessions(auth.SessionName, deps.Sessions))

	h := deps.Handler
	limit := middleware.RateLimiter(deps.Limiter)

	r.GET("/", middleware.InjectUser(deps.Guard), handlers.IndexPage)

	// auth
	r.GET("/signup", handlers.ShowSignup)
	r.POST("/signup", limit, h.Signup)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", limit, h.Login)
	r.POST("/logout", handlers.Logout)

	authed := r.Group("/")
	authed.Use(middleware.RequireAuth(deps.Guard))

	users := authed.Group("/dashboard/users", middleware.RequireRole(models.RoleUser))
	users.GET("", h.UserDashboard)
	users.POST("/tasks/:id/transition", h.TransitionTask)

	moderator := authed.Group("/dashboard/moderator", middleware.RequireRole(models.RoleModerator))
	moderator.GET("", h.ModeratorDashboard)
	moderator.GET("/authors", h.ListAuthors)
	moderator.POST("/tasks", h.CreateTask)

	authed.GET("/dashboard/admin", middleware.RequireRole(models.RoleAdmin), h.AdminDashboard)

	authed.GET("/api/tasks/counts",
		middleware.RequireRole(models.RoleAdmin, models.RoleModerator),
		h.TaskCounts,
	)

	r.GET("/health", handlers.Health)

	return r
}
