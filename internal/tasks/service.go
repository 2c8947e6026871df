// Package tasks owns the recovery task lifecycle: creation by moderators,
// paginated queries, terminal transitions by the assigned field user, and the
// per-status aggregates shown on dashboards.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/attachment"
	"afford-tracker/internal/auth"
	"afford-tracker/internal/models"
	"afford-tracker/internal/repository"
	"afford-tracker/internal/validation"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter repository.TaskFilter, offset, limit int) ([]models.Task, int64, error)
	Resolve(ctx context.Context, id string, status models.TaskStatus, imageURL string, at time.Time) error
	CountByStatus(ctx context.Context, filter repository.TaskFilter) (map[models.TaskStatus]int64, error)
	StatusTimeline(ctx context.Context, filter repository.TaskFilter) ([]repository.StatusPoint, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole, city models.City) ([]models.User, error)
}

type CreateTaskRequest struct {
	VehicleNumber string `json:"vehicleNumber" form:"vehicleNumber" validate:"required,min=10,max=32"`
	OwnerName     string `json:"ownerName" form:"ownerName" validate:"required,max=255"`
	OwnerPhone    string `json:"ownerPhone" form:"ownerPhone" validate:"required,min=10,max=20"`
	City          string `json:"city" form:"city" validate:"required,city"`
	AuthorID      string `json:"authorId" form:"authorId" validate:"required"`
}

type ListQuery struct {
	Status   models.TaskStatus `validate:"omitempty,oneof=PENDING COMPLETE CANCELLED"`
	AuthorID string
	Page     int `validate:"gte=1,lte=1000000"`
	PageSize int `validate:"gte=1,lte=100"`
}

type Page struct {
	Tasks      []models.Task `json:"tasks"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"perPage"`
	TotalPages int           `json:"totalPages"`
}

type Counts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Complete  int64 `json:"complete"`
	Cancelled int64 `json:"cancelled"`
}

// MonthCounts holds per-status totals for tasks created in one calendar month.
type MonthCounts struct {
	Month     string `json:"month"`
	Pending   int64  `json:"pending"`
	Complete  int64  `json:"complete"`
	Cancelled int64  `json:"cancelled"`
}

type Service struct {
	tasks    Repository
	users    UserLookup
	resolver attachment.Resolver
	validate *validation.Validator
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(tasks Repository, users UserLookup, resolver attachment.Resolver, validate *validation.Validator, opts ...Option) *Service {
	s := &Service{
		tasks:    tasks,
		users:    users,
		resolver: resolver,
		validate: validate,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateTask(ctx context.Context, actor *auth.Identity, req CreateTaskRequest) (*models.Task, error) {
	if err := auth.RequireRole(actor, models.RoleModerator); err != nil {
		return nil, err
	}

	req.VehicleNumber = strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	req.OwnerPhone = strings.TrimSpace(req.OwnerPhone)
	req.City = strings.ToLower(strings.TrimSpace(req.City))
	req.AuthorID = strings.TrimSpace(req.AuthorID)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	city := models.City(req.City)
	if err := s.checkAuthor(ctx, req.AuthorID, city); err != nil {
		return nil, err
	}

	now := s.now()
	task := &models.Task{
		VehicleNumber: req.VehicleNumber,
		OwnerName:     req.OwnerName,
		OwnerPhone:    req.OwnerPhone,
		City:          city,
		Status:        models.StatusPending,
		AuthorID:      req.AuthorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *Service) checkAuthor(ctx context.Context, authorID string, city models.City) error {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: author does not exist", apperrors.ErrAuthorNotEligible)
		}
		return fmt.Errorf("load author: %w", err)
	}
	if author.Role != models.RoleUser {
		return fmt.Errorf("%w: author is not a field user", apperrors.ErrAuthorNotEligible)
	}
	if author.City != city {
		return fmt.Errorf("%w: author works in %s, task is in %s", apperrors.ErrAuthorNotEligible, author.City, city)
	}
	return nil
}

// ListTasks returns one page of the filtered tasks, newest first. A page past
// the end is empty, not an error.
func (s *Service) ListTasks(ctx context.Context, q ListQuery) (*Page, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, err
	}

	filter := repository.TaskFilter{Status: q.Status, AuthorID: q.AuthorID}
	offset := (q.Page - 1) * q.PageSize

	tasks, total, err := s.tasks.List(ctx, filter, offset, q.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &Page{
		Tasks:      tasks,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}

// TransitionTask resolves a PENDING task to COMPLETE or CANCELLED. The image
// is uploaded before anything is written; the status and URL are then stored
// together in one conditional update.
func (s *Service) TransitionTask(ctx context.Context, actor *auth.Identity, taskID string, target models.TaskStatus, image []byte) (*models.Task, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AuthorID != actor.ID {
		return nil, fmt.Errorf("%w: task belongs to another user", apperrors.ErrForbidden)
	}
	if task.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: task is %s", apperrors.ErrInvalidTransition, task.Status)
	}
	if !target.Terminal() {
		return nil, fmt.Errorf("%w: status must be COMPLETE or CANCELLED", apperrors.ErrValidation)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is required", apperrors.ErrValidation)
	}
	if !attachment.IsImage(image) {
		return nil, fmt.Errorf("%w: uploadImage must be an image", apperrors.ErrValidation)
	}

	url, err := s.resolver.Upload(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAttachmentUploadFailed, err)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", apperrors.ErrAttachmentUploadFailed)
	}

	now := s.now()
	if err := s.tasks.Resolve(ctx, task.ID, target, url, now); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, fmt.Errorf("%w: task was resolved concurrently", apperrors.ErrInvalidTransition)
		}
		return nil, fmt.Errorf("resolve task: %w", err)
	}

	task.Status = target
	task.UploadedImage = url
	task.UpdatedAt = now
	return task, nil
}

// AggregateCounts counts tasks by status, optionally for a single author.
func (s *Service) AggregateCounts(ctx context.Context, authorID string) (Counts, error) {
	byStatus, err := s.tasks.CountByStatus(ctx, repository.TaskFilter{AuthorID: authorID})
	if err != nil {
		return Counts{}, fmt.Errorf("count tasks: %w", err)
	}

	c := Counts{
		Pending:   byStatus[models.StatusPending],
		Complete:  byStatus[models.StatusComplete],
		Cancelled: byStatus[models.StatusCancelled],
	}
	c.Total = c.Pending + c.Complete + c.Cancelled
	return c, nil
}

// MonthlyCounts buckets tasks by the month they were created in, oldest
// month first.
func (s *Service) MonthlyCounts(ctx context.Context, authorID string) ([]MonthCounts, error) {
	points, err := s.tasks.StatusTimeline(ctx, repository.TaskFilter{AuthorID: authorID})
	if err != nil {
		return nil, fmt.Errorf("load task timeline: %w", err)
	}

	buckets := map[string]*MonthCounts{}
	for _, p := range points {
		key := p.CreatedAt.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthCounts{Month: key}
			buckets[key] = b
		}
		switch p.Status {
		case models.StatusPending:
			b.Pending++
		case models.StatusComplete:
			b.Complete++
		case models.StatusCancelled:
			b.Cancelled++
		}
	}

	months := make([]MonthCounts, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, *b)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}

// EligibleAuthors lists the field users a moderator may assign in city. An
// empty city returns field users of every city.
func (s *Service) EligibleAuthors(ctx context.Context, actor *auth.Identity, city models.City) ([]models.User, error) {
	if err := auth.RequireRole(actor, models.RoleModerator); err != nil {
		return nil, err
	}
	if city != "" && !city.Valid() {
		return nil, fmt.Errorf("%w: city is not a service city", apperrors.ErrValidation)
	}

	users, err := s.users.ListByRole(ctx, models.RoleUser, city)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return users, nil
}

// AuthorsByCity groups every field user under their city. All service cities
// are present as keys.
func (s *Service) AuthorsByCity(ctx context.Context, actor *auth.Identity) (map[models.City][]models.User, error) {
	users, err := s.EligibleAuthors(ctx, actor, "")
	if err != nil {
		return nil, err
	}

	grouped := make(map[models.City][]models.User, len(models.Cities))
	for _, c := range models.Cities {
		grouped[c] = []models.User{}
	}
	for _, u := range users {
		grouped[u.City] = append(grouped[u.City], u)
	}
	return grouped, nil
}
