package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/models"
)

// ErrNotPending is returned by Resolve when the row was no longer PENDING at
// write time.
var ErrNotPending = errors.New("task is not pending")

type TaskRepository struct {
	db *gorm.DB
}

// TaskFilter narrows list and count queries. Zero values match everything.
type TaskFilter struct {
	Status   models.TaskStatus
	AuthorID string
}

// StatusPoint is the minimal projection used for time-bucketed aggregates.
type StatusPoint struct {
	CreatedAt time.Time
	Status    models.TaskStatus
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) scoped(ctx context.Context, filter TaskFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	return query
}

// List returns one window of the filtered set, newest first, together with
// the size of the whole filtered set.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter, offset, limit int) ([]models.Task, int64, error) {
	if limit <= 0 {
		return nil, 0, errors.New("limit must be positive")
	}

	var total int64
	if err := r.scoped(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if int64(offset) >= total {
		return tasks, total, nil
	}

	err := r.scoped(ctx, filter).
		Preload("Author").
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Resolve moves a PENDING task to a terminal status and stores the attachment
// URL in one conditional write.
func (r *TaskRepository) Resolve(ctx context.Context, id string, status models.TaskStatus, imageURL string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"uploaded_image": imageURL,
			"updated_at":     at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// CountByStatus groups the filtered set by status. Statuses with no rows are
// absent from the map.
func (r *TaskRepository) CountByStatus(ctx context.Context, filter TaskFilter) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Total  int64
	}
	err := r.scoped(ctx, filter).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *TaskRepository) StatusTimeline(ctx context.Context, filter TaskFilter) ([]StatusPoint, error) {
	var points []StatusPoint
	err := r.scoped(ctx, filter).
		Select("created_at, status").
		Order("created_at asc").
		Scan(&points).Error
	return points, err
}
