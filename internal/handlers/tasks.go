package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"afford-tracker/internal/middleware"
	"afford-tracker/internal/models"
	"afford-tracker/internal/tasks"
)

// Room for the multipart envelope and the status field on top of the image.
const multipartOverhead = 1 << 20

// actions accepted in place of an explicit status.
var actions = map[string]models.TaskStatus{
	"completeTask": models.StatusComplete,
	"cancelTask":   models.StatusCancelled,
}

// UserDashboard shows the field user's own counts and a page of their tasks,
// pending ones by default.
func (h *Handler) UserDashboard(c *gin.Context) {
	me := middleware.CurrentUser(c)

	q, err := listQuery(c, models.StatusPending)
	if err != nil {
		respondError(c, err)
		return
	}
	q.AuthorID = me.ID

	page, err := h.tasks.ListTasks(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := h.tasks.AggregateCounts(c.Request.Context(), me.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, gin.H{"counts": counts, "tasks": page})
}

func (h *Handler) TransitionTask(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, badRequest("uploadImage must be at most %d MB", h.maxUpload>>20))
			return
		}
		respondError(c, badRequest("expected a multipart form"))
		return
	}

	status := models.TaskStatus(strings.ToUpper(strings.TrimSpace(c.PostForm("status"))))
	if status == "" {
		status = actions[c.PostForm("_action")]
	}

	image, err := h.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.TransitionTask(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), status, image)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, gin.H{"task": task})
}

// readImage returns nil when no file was sent; the service decides what that
// means for the request.
func (h *Handler) readImage(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("uploadImage")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("unreadable uploadImage")
	}
	if fh.Size > h.maxUpload {
		return nil, badRequest("uploadImage must be at most %d MB", h.maxUpload>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, h.maxUpload))
}

func (h *Handler) ModeratorDashboard(c *gin.Context) {
	q, err := listQuery(c, "")
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.tasks.ListTasks(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := h.tasks.AggregateCounts(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, gin.H{"counts": counts, "tasks": page})
}

// ListAuthors returns the assignable field users of ?city, or all of them
// grouped by city when no city is given.
func (h *Handler) ListAuthors(c *gin.Context) {
	me := middleware.CurrentUser(c)
	city := models.City(strings.ToLower(strings.TrimSpace(c.Query("city"))))

	if city == "" {
		grouped, err := h.tasks.AuthorsByCity(c.Request.Context(), me)
		if err != nil {
			respondError(c, err)
			return
		}
		render(c, http.StatusOK, gin.H{"authorsByCity": grouped})
		return
	}

	authors, err := h.tasks.EligibleAuthors(c.Request.Context(), me, city)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, gin.H{"city": city, "authors": authors})
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req tasks.CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, badRequest("malformed task form"))
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusCreated, gin.H{"task": task})
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	q, err := listQuery(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.tasks.ListTasks(ctx, q)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := h.tasks.AggregateCounts(ctx, "")
	if err != nil {
		respondError(c, err)
		return
	}
	monthly, err := h.tasks.MonthlyCounts(ctx, "")
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, gin.H{"counts": counts, "monthly": monthly, "tasks": page})
}

func (h *Handler) TaskCounts(c *gin.Context) {
	counts, err := h.tasks.AggregateCounts(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
