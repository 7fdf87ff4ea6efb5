package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

func seedTodos(t *testing.T, repo repository.TodoRepository, now time.Time) {
	t.Helper()
	ctx := context.Background()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	done := true

	seeds := []*models.Todo{
		models.NewTodo("Overdue", models.PriorityHigh, &past),
		models.NewTodo("Later", models.PriorityLow, &future),
		models.NewTodo("Whenever", "", nil),
		models.NewTodo("Finished late", models.PriorityHigh, &past),
	}
	for i, seed := range seeds {
		todo, err := repo.Create(ctx, seed)
		require.NoError(t, err)
		if i == len(seeds)-1 {
			_, err = repo.Update(ctx, todo.ID, repository.TodoChanges{Completed: &done})
			require.NoError(t, err)
		}
	}
}

func TestTodoQueries_Partition(t *testing.T) {
	repo := repository.NewMemoryTodoRepository()
	seedTodos(t, repo, time.Now())
	q := NewTodoQueries(repo)
	ctx := context.Background()

	all, err := q.GetAll(ctx)
	require.NoError(t, err)
	active, err := q.GetActive(ctx)
	require.NoError(t, err)
	completed, err := q.GetCompleted(ctx)
	require.NoError(t, err)

	assert.Len(t, all, 4)
	assert.Len(t, active, 3)
	assert.Len(t, completed, 1)

	seen := map[string]bool{}
	for _, todo := range append(active, completed...) {
		assert.False(t, seen[todo.ID], "todo %s listed twice", todo.ID)
		seen[todo.ID] = true
	}
	for _, todo := range all {
		assert.True(t, seen[todo.ID])
	}
}

func TestTodoQueries_GetByID(t *testing.T) {
	repo := repository.NewMemoryTodoRepository()
	q := NewTodoQueries(repo)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.NewTodo("Buy milk", "", nil))
	require.NoError(t, err)

	found, err := q.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", found.Title)

	_, err = q.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoQueries_GetStats(t *testing.T) {
	now := time.Now()
	repo := repository.NewMemoryTodoRepository()
	seedTodos(t, repo, now)
	q := NewTodoQueries(repo)
	q.now = func() time.Time { return now }

	stats, err := q.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, PriorityCounts{Low: 1, Medium: 1, High: 2}, stats.ByPriority)
}

func TestTodoQueries_GetStats_Empty(t *testing.T) {
	stats, err := NewTodoQueries(repository.NewMemoryTodoRepository()).GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &TodoStats{}, stats)
}
