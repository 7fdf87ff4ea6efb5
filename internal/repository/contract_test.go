package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
)

// testTodoRepository runs the behaviour every TodoRepository backend must share.
func testTodoRepository(t *testing.T, newRepo func(t *testing.T) TodoRepository) {
	t.Run("create assigns distinct ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seen := map[string]struct{}{}
		for i := 0; i < 5; i++ {
			created, err := repo.Create(ctx, models.NewTodo("Buy milk", "", nil))
			require.NoError(t, err)
			require.NotEmpty(t, created.ID)
			assert.NotContains(t, seen, created.ID)
			seen[created.ID] = struct{}{}

			assert.False(t, created.Completed)
			assert.Equal(t, models.PriorityMedium, created.Priority)
			assert.False(t, created.CreatedAt.IsZero())
		}
	})

	t.Run("get by id round trips fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		due := time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)
		created, err := repo.Create(ctx, models.NewTodo("File taxes", models.PriorityHigh, &due))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "File taxes", got.Title)
		assert.Equal(t, models.PriorityHigh, got.Priority)
		require.NotNil(t, got.DueDate)
		assert.WithinDuration(t, due, *got.DueDate, time.Millisecond)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)

		title := "x"
		_, err = repo.Update(ctx, "does-not-exist", TodoChanges{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, "does-not-exist"), ErrNotFound)
	})

	t.Run("update applies partial changes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		created, err := repo.Create(ctx, models.NewTodo("Draft", models.PriorityLow, &due))
		require.NoError(t, err)

		title := "Final"
		completed := true
		updated, err := repo.Update(ctx, created.ID, TodoChanges{Title: &title, Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, "Final", updated.Title)
		assert.True(t, updated.Completed)
		assert.Equal(t, models.PriorityLow, updated.Priority)
		require.NotNil(t, updated.DueDate)

		cleared, err := repo.Update(ctx, created.ID, TodoChanges{ClearDueDate: true})
		require.NoError(t, err)
		assert.Nil(t, cleared.DueDate)
		assert.Equal(t, "Final", cleared.Title)
	})

	t.Run("active and completed partition all", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ids := make([]string, 0, 6)
		for i := 0; i < 6; i++ {
			created, err := repo.Create(ctx, models.NewTodo("todo", "", nil))
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}
		done := true
		for _, id := range ids[:2] {
			_, err := repo.Update(ctx, id, TodoChanges{Completed: &done})
			require.NoError(t, err)
		}

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		active, err := repo.GetActive(ctx)
		require.NoError(t, err)
		completed, err := repo.GetCompleted(ctx)
		require.NoError(t, err)

		assert.Len(t, all, 6)
		assert.Len(t, active, 4)
		assert.Len(t, completed, 2)

		union := map[string]int{}
		for _, todo := range active {
			assert.False(t, todo.Completed)
			union[todo.ID]++
		}
		for _, todo := range completed {
			assert.True(t, todo.Completed)
			union[todo.ID]++
		}
		for _, todo := range all {
			assert.Equal(t, 1, union[todo.ID], "todo %s must appear in exactly one partition", todo.ID)
		}
	})

	t.Run("lists are newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, title := range []string{"first", "second", "third"} {
			todo := models.NewTodo(models.Title(title), "", nil)
			todo.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			_, err := repo.Create(ctx, todo)
			require.NoError(t, err)
		}

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"third", "second", "first"}, []string{all[0].Title, all[1].Title, all[2].Title})
	})

	t.Run("failed delete keeps count", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Create(ctx, models.NewTodo("todo", "", nil))
			require.NoError(t, err)
		}
		require.ErrorIs(t, repo.Delete(ctx, "bad-id"), ErrNotFound)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})

	t.Run("delete removes todo", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, models.NewTodo("todo", "", nil))
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.NotNil(t, all)
	})
}

// testUserRepository runs the behaviour every UserRepository backend must share.
func testUserRepository(t *testing.T, newRepo func(t *testing.T) UserRepository) {
	newUser := func(email, username string) *models.User {
		return &models.User{
			FirstName:    "Jane",
			LastName:     "Doe",
			Email:        email,
			Username:     username,
			PasswordHash: "hash",
		}
	}

	t.Run("create and look up", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, newUser("jane@example.com", "jane"))
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", byID.Email)

		byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byUsername, err := repo.GetByUsername(ctx, "jane")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byUsername.ID)
		assert.Equal(t, "hash", byUsername.PasswordHash)
	})

	t.Run("exists checks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		exists, err := repo.EmailExists(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repo.Create(ctx, newUser("jane@example.com", "jane"))
		require.NoError(t, err)

		exists, err = repo.EmailExists(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.UsernameExists(ctx, "jane")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.UsernameExists(ctx, "john")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("uniqueness enforced on write", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, newUser("jane@example.com", "jane"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newUser("jane@example.com", "jane2"))
		assert.ErrorIs(t, err, ErrDuplicate)

		_, err = repo.Create(ctx, newUser("other@example.com", "jane"))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetByEmail(ctx, "nope@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetByUsername(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
