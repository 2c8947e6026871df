package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/models"
	"afford-tracker/internal/testutil"
)

func seedTask(t *testing.T, repo *TaskRepository, author *models.User, createdAt time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		VehicleNumber: "MP04AB1234",
		OwnerName:     "Owner",
		OwnerPhone:    "9876543210",
		City:          author.City,
		Status:        models.StatusPending,
		AuthorID:      author.ID,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestTaskRepositoryFindByID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	author := testutil.CreateUser(t, db, "asha", models.CityBhopal, models.RoleUser)

	created := seedTask(t, repo, author, time.Now().UTC())
	assert.Len(t, created.ID, 36)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, models.StatusPending, found.Status)

	_, err = repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTaskRepositoryResolveIsConditional(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "asha", models.CityBhopal, models.RoleUser)
	task := seedTask(t, repo, author, time.Now().UTC())
	at := time.Now().UTC().Add(time.Minute)

	require.NoError(t, repo.Resolve(ctx, task.ID, models.StatusComplete, "https://img/1.jpg", at))

	err := repo.Resolve(ctx, task.ID, models.StatusCancelled, "https://img/2.jpg", at)
	assert.ErrorIs(t, err, ErrNotPending)

	err = repo.Resolve(ctx, "missing", models.StatusCancelled, "https://img/3.jpg", at)
	assert.ErrorIs(t, err, ErrNotPending)

	stored, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, stored.Status)
	assert.Equal(t, "https://img/1.jpg", stored.UploadedImage)
}

func TestTaskRepositoryListAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	asha := testutil.CreateUser(t, db, "asha", models.CityBhopal, models.RoleUser)
	ravi := testutil.CreateUser(t, db, "ravi", models.CityGwalior, models.RoleUser)

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		author := asha
		if i == 2 {
			author = ravi
		}
		ids = append(ids, seedTask(t, repo, author, base.Add(time.Duration(i)*time.Hour)).ID)
	}
	require.NoError(t, repo.Resolve(ctx, ids[0], models.StatusCancelled, "https://img/c.jpg", base.Add(time.Hour)))

	tests := []struct {
		name      string
		filter    TaskFilter
		offset    int
		limit     int
		wantIDs   []string
		wantTotal int64
	}{
		{name: "first window", limit: 2, wantIDs: []string{ids[4], ids[3]}, wantTotal: 5},
		{name: "last partial window", offset: 4, limit: 2, wantIDs: []string{ids[0]}, wantTotal: 5},
		{name: "past the end", offset: 10, limit: 2, wantIDs: []string{}, wantTotal: 5},
		{name: "by author", filter: TaskFilter{AuthorID: ravi.ID}, limit: 5, wantIDs: []string{ids[2]}, wantTotal: 1},
		{name: "by status", filter: TaskFilter{Status: models.StatusCancelled}, limit: 5, wantIDs: []string{ids[0]}, wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := repo.List(ctx, tt.filter, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			got := []string{}
			for _, task := range tasks {
				got = append(got, task.ID)
				require.NotNil(t, task.Author)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}

	_, _, err := repo.List(ctx, TaskFilter{}, 0, 0)
	assert.Error(t, err)

	counts, err := repo.CountByStatus(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, map[models.TaskStatus]int64{models.StatusPending: 4, models.StatusCancelled: 1}, counts)

	own, err := repo.CountByStatus(ctx, TaskFilter{AuthorID: ravi.ID})
	require.NoError(t, err)
	assert.Equal(t, map[models.TaskStatus]int64{models.StatusPending: 1}, own)

	points, err := repo.StatusTimeline(ctx, TaskFilter{AuthorID: asha.ID})
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.True(t, points[0].CreatedAt.Equal(base))
	assert.Equal(t, models.StatusCancelled, points[0].Status)
}
