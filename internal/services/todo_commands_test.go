package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

type stubGenerator struct {
	todos []SuggestedTodo
	err   error
	text  string
}

func (g *stubGenerator) GenerateTodosFromText(_ context.Context, text string) ([]SuggestedTodo, error) {
	g.text = text
	return g.todos, g.err
}

func newTodoCommands(gen TodoGenerator) (*TodoCommands, *repository.MemoryTodoRepository) {
	repo := repository.NewMemoryTodoRepository()
	return NewTodoCommands(repo, gen), repo
}

func TestTodoCommands_CreateTodo(t *testing.T) {
	cmds, repo := newTodoCommands(nil)
	ctx := context.Background()

	todo, err := cmds.CreateTodo(ctx, CreateTodoCommand{Title: "Buy milk"})
	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)
	assert.Equal(t, models.PriorityMedium, todo.Priority)

	other, err := cmds.CreateTodo(ctx, CreateTodoCommand{Title: "Walk dog", Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.NotEqual(t, todo.ID, other.ID)
	assert.Equal(t, models.PriorityHigh, other.Priority)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTodoCommands_UpdateTodo(t *testing.T) {
	cmds, _ := newTodoCommands(nil)
	ctx := context.Background()

	due := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	todo, err := cmds.CreateTodo(ctx, CreateTodoCommand{Title: "Buy milk", DueDate: &due})
	require.NoError(t, err)

	title := models.Title("Buy oat milk")
	updated, err := cmds.UpdateTodo(ctx, todo.ID, UpdateTodoCommand{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))

	cleared, err := cmds.UpdateTodo(ctx, todo.ID, UpdateTodoCommand{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)
	assert.Equal(t, "Buy oat milk", cleared.Title)
}

func TestTodoCommands_UpdateTodo_NotFound(t *testing.T) {
	cmds, _ := newTodoCommands(nil)

	done := true
	_, err := cmds.UpdateTodo(context.Background(), "missing", UpdateTodoCommand{Completed: &done})
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoCommands_ToggleTwiceRestores(t *testing.T) {
	cmds, _ := newTodoCommands(nil)
	ctx := context.Background()

	todo, err := cmds.CreateTodo(ctx, CreateTodoCommand{Title: "Buy milk"})
	require.NoError(t, err)

	toggled, err := cmds.ToggleTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	restored, err := cmds.ToggleTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.Completed, restored.Completed)

	_, err = cmds.ToggleTodo(ctx, "missing")
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoCommands_DeleteTodo(t *testing.T) {
	cmds, repo := newTodoCommands(nil)
	ctx := context.Background()

	todo, err := cmds.CreateTodo(ctx, CreateTodoCommand{Title: "Buy milk"})
	require.NoError(t, err)

	err = cmds.DeleteTodo(ctx, "missing")
	assert.ErrorIs(t, err, ErrTodoNotFound)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, cmds.DeleteTodo(ctx, todo.ID))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTodoCommands_GenerateTodos(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	stale := now.Add(-72 * time.Hour)

	gen := &stubGenerator{todos: []SuggestedTodo{
		{Title: "  Call the plumber  ", Priority: "HIGH", DueDate: &future},
		{Title: "   "},
		{Title: "Pay rent", Priority: "urgent", DueDate: &stale},
	}}
	cmds, repo := newTodoCommands(gen)
	cmds.now = func() time.Time { return now }

	todos, err := cmds.GenerateTodos(context.Background(), GenerateTodosCommand{Text: "  plumber and rent  "})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "plumber and rent", gen.text)

	assert.Equal(t, models.Title("Call the plumber"), todos[0].Title)
	assert.Equal(t, models.PriorityHigh, todos[0].Priority)
	assert.Equal(t, &future, todos[0].DueDate)

	assert.Equal(t, models.Title("Pay rent"), todos[1].Title)
	assert.Equal(t, models.PriorityMedium, todos[1].Priority)
	assert.Nil(t, todos[1].DueDate)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTodoCommands_GenerateTodos_Limits(t *testing.T) {
	many := make([]SuggestedTodo, 30)
	for i := range many {
		many[i] = SuggestedTodo{Title: "Todo"}
	}
	cmds, _ := newTodoCommands(&stubGenerator{todos: many})

	todos, err := cmds.GenerateTodos(context.Background(), GenerateTodosCommand{Text: "lots"})
	require.NoError(t, err)
	assert.Len(t, todos, 20)
}

func TestTodoCommands_GenerateTodos_Errors(t *testing.T) {
	ctx := context.Background()
	upstream := errors.New("boom")

	tests := []struct {
		name string
		gen  TodoGenerator
		want error
	}{
		{"not configured", nil, ErrAIServiceNotConfigured},
		{"no suggestions", &stubGenerator{}, ErrAINoTodosGenerated},
		{"nothing valid", &stubGenerator{todos: []SuggestedTodo{{Title: ""}}}, ErrAINoValidTodos},
		{"upstream failure", &stubGenerator{err: upstream}, upstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, _ := newTodoCommands(tt.gen)
			_, err := cmds.GenerateTodos(ctx, GenerateTodosCommand{Text: "text"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
