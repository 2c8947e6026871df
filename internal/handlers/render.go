package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/middleware"
	"afford-tracker/internal/models"
	"afford-tracker/internal/tasks"
)

// render writes data as JSON and adds the acting user when there is one.
func render(c *gin.Context, status int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if u := middleware.CurrentUser(c); u != nil {
		data["currentUser"] = u
	}
	c.JSON(status, data)
}

// respondError sends auth failures back to the login page and every other
// error as {"error": ...} with its mapped status.
func respondError(c *gin.Context, err error) {
	if apperrors.RedirectsToLogin(err) {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		c.Abort()
		return
	}

	status := apperrors.StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// listQuery reads ?status, ?page and ?perPage. "all" clears the status filter.
func listQuery(c *gin.Context, defaultStatus models.TaskStatus) (tasks.ListQuery, error) {
	q := tasks.ListQuery{
		Status:   defaultStatus,
		Page:     1,
		PageSize: tasks.DefaultPageSize,
	}

	if s := strings.TrimSpace(c.Query("status")); s != "" {
		if strings.EqualFold(s, "all") {
			q.Status = ""
		} else {
			q.Status = models.TaskStatus(strings.ToUpper(s))
		}
	}

	var err error
	if q.Page, err = intQuery(c, "page", q.Page); err != nil {
		return q, err
	}
	if q.PageSize, err = intQuery(c, "perPage", q.PageSize); err != nil {
		return q, err
	}
	return q, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be a number", key)
	}
	return n, nil
}
