package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

var (
	// ErrNotFound is returned by every backend when no record has the given ID.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create stores a new todo and assigns its ID
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	// GetByID finds a todo by ID
	GetByID(ctx context.Context, id string) (*models.Todo, error)

	// GetAll lists every todo, newest first
	GetAll(ctx context.Context) ([]models.Todo, error)

	// GetActive lists todos that are not completed
	GetActive(ctx context.Context) ([]models.Todo, error)

	// GetCompleted lists completed todos
	GetCompleted(ctx context.Context) ([]models.Todo, error)

	// Update applies partial changes and returns the stored todo
	Update(ctx context.Context, id string, changes TodoChanges) (*models.Todo, error)

	// Delete removes a todo
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored todos
	Count(ctx context.Context) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create stores a new user; email and username must be unique
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID finds a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail finds a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByUsername finds a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// EmailExists reports whether a user already uses the email
	EmailExists(ctx context.Context, email string) (bool, error)

	// UsernameExists reports whether a user already uses the username
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// TodoChanges holds a partial todo update. Nil fields are left untouched.
type TodoChanges struct {
	Title        *string
	Completed    *bool
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// Apply copies the set fields onto todo.
func (c TodoChanges) Apply(todo *models.Todo) {
	if c.Title != nil {
		todo.Title = *c.Title
	}
	if c.Completed != nil {
		todo.Completed = *c.Completed
	}
	if c.Priority != nil {
		todo.Priority = *c.Priority
	}
	if c.ClearDueDate {
		todo.DueDate = nil
	} else if c.DueDate != nil {
		due := c.DueDate.UTC()
		todo.DueDate = &due
	}
}

// prepareTodo returns a copy of todo ready for insertion.
func prepareTodo(todo *models.Todo, id string, now time.Time) models.Todo {
	t := *todo
	t.ID = id
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

func sortNewestFirst(todos []models.Todo) {
	slices.SortFunc(todos, func(a, b models.Todo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
