package services

import (
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

// CreateTodoCommand is a validated request to create a todo
type CreateTodoCommand struct {
	Title    models.Title
	Priority models.Priority
	DueDate  *time.Time
}

// UpdateTodoCommand is a validated partial update. Nil fields are left as they are.
type UpdateTodoCommand struct {
	Title        *models.Title
	Completed    *bool
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// RegisterCommand is a validated signup request
type RegisterCommand struct {
	FirstName models.Name
	LastName  models.Name
	Email     models.Email
	Password  string
}

// LoginCommand holds credentials. Identifier is either an email or a username.
type LoginCommand struct {
	Identifier string
	Password   string
}

// GenerateTodosCommand carries the free text todos are extracted from
type GenerateTodosCommand struct {
	Text string
}
