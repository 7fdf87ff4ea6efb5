package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

var (
	ErrTodoNotFound           = errors.New("todo not found")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTodosGenerated     = errors.New("AI did not generate any todos")
	ErrAINoValidTodos         = errors.New("no valid todos could be created from AI output")
)

// TodoGenerator extracts todo suggestions from free text
type TodoGenerator interface {
	GenerateTodosFromText(ctx context.Context, text string) ([]SuggestedTodo, error)
}

// GeneratedTodo is a cleaned-up suggestion. It is never persisted.
type GeneratedTodo struct {
	Title    models.Title
	Priority models.Priority
	DueDate  *time.Time
}

// TodoCommands handles every todo write
type TodoCommands struct {
	repo      repository.TodoRepository
	generator TodoGenerator
	now       func() time.Time
}

// NewTodoCommands creates a new TodoCommands. generator may be nil, which
// disables GenerateTodos.
func NewTodoCommands(repo repository.TodoRepository, generator TodoGenerator) *TodoCommands {
	return &TodoCommands{
		repo:      repo,
		generator: generator,
		now:       time.Now,
	}
}

// CreateTodo stores a new active todo
func (s *TodoCommands) CreateTodo(ctx context.Context, cmd CreateTodoCommand) (*models.Todo, error) {
	todo, err := s.repo.Create(ctx, models.NewTodo(cmd.Title, cmd.Priority, cmd.DueDate))
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

// UpdateTodo applies a partial update
func (s *TodoCommands) UpdateTodo(ctx context.Context, id string, cmd UpdateTodoCommand) (*models.Todo, error) {
	changes := repository.TodoChanges{
		Completed:    cmd.Completed,
		Priority:     cmd.Priority,
		DueDate:      cmd.DueDate,
		ClearDueDate: cmd.ClearDueDate,
	}
	if cmd.Title != nil {
		title := cmd.Title.String()
		changes.Title = &title
	}

	todo, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, todoError(err, "failed to update todo")
	}
	return todo, nil
}

// ToggleTodo flips the completed flag. The read and the write are separate
// calls, so a concurrent update to the same todo wins or loses by timing.
func (s *TodoCommands) ToggleTodo(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, todoError(err, "failed to find todo")
	}

	completed := !todo.Completed
	return s.UpdateTodo(ctx, id, UpdateTodoCommand{Completed: &completed})
}

// DeleteTodo removes a todo
func (s *TodoCommands) DeleteTodo(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return todoError(err, "failed to delete todo")
	}
	return nil
}

// GenerateTodos asks the AI for todo suggestions found in cmd.Text. Blank or
// invalid titles are dropped, unknown priorities become medium and due dates
// more than a day in the past are cleared.
func (s *TodoCommands) GenerateTodos(ctx context.Context, cmd GenerateTodosCommand) ([]GeneratedTodo, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.generator.GenerateTodosFromText(ctx, strings.TrimSpace(cmd.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate todos: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, ErrAINoTodosGenerated
	}

	cutoff := s.now().Add(-24 * time.Hour)
	todos := make([]GeneratedTodo, 0, len(suggestions))
	for _, suggestion := range suggestions {
		title, err := models.NewTitle(suggestion.Title)
		if err != nil {
			continue
		}

		priority, err := models.ParsePriority(suggestion.Priority)
		if err != nil {
			priority = models.PriorityMedium
		}

		dueDate := suggestion.DueDate
		if dueDate != nil && dueDate.Before(cutoff) {
			dueDate = nil
		}

		todos = append(todos, GeneratedTodo{Title: title, Priority: priority, DueDate: dueDate})
		if len(todos) == constants.MaxGeneratedTodos {
			break
		}
	}

	if len(todos) == 0 {
		return nil, ErrAINoValidTodos
	}
	return todos, nil
}

// todoError maps a missing record onto ErrTodoNotFound and wraps everything else
func todoError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTodoNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
