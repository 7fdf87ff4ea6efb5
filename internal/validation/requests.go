package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

type CreateTodoRequest struct {
	Title    string     `json:"title" binding:"required"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"dueDate"`
}

// UpdateTodoRequest is a partial update. Send clearDueDate to remove the due
// date, since a null dueDate cannot be told apart from a missing one.
type UpdateTodoRequest struct {
	Title        *string    `json:"title"`
	Completed    *bool      `json:"completed"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required_without=Username"`
	Username string `json:"username" binding:"required_without=Email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type GenerateTodosRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

// CreateTodo turns a bound request into a command.
func CreateTodo(req CreateTodoRequest) (services.CreateTodoCommand, error) {
	verr := &ValidationError{}

	title, err := models.NewTitle(req.Title)
	if err != nil {
		verr.add("title", valueReason(err, "title"))
	}
	priority, err := models.ParsePriority(req.Priority)
	if err != nil {
		verr.add("priority", valueReason(err, "priority"))
	}

	if err := verr.orNil(); err != nil {
		return services.CreateTodoCommand{}, err
	}
	return services.CreateTodoCommand{Title: title, Priority: priority, DueDate: req.DueDate}, nil
}

func UpdateTodo(req UpdateTodoRequest) (services.UpdateTodoCommand, error) {
	verr := &ValidationError{}
	cmd := services.UpdateTodoCommand{
		Completed:    req.Completed,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}

	if req.Title != nil {
		title, err := models.NewTitle(*req.Title)
		if err != nil {
			verr.add("title", valueReason(err, "title"))
		}
		cmd.Title = &title
	}
	if req.Priority != nil {
		priority, err := models.ParsePriority(*req.Priority)
		if err != nil {
			verr.add("priority", valueReason(err, "priority"))
		}
		cmd.Priority = &priority
	}
	if req.ClearDueDate && req.DueDate != nil {
		verr.add("dueDate", "cannot be set together with clearDueDate")
	}

	if err := verr.orNil(); err != nil {
		return services.UpdateTodoCommand{}, err
	}
	return cmd, nil
}

func Register(req RegisterRequest) (services.RegisterCommand, error) {
	verr := &ValidationError{}

	firstName, err := models.NewName(req.FirstName)
	if err != nil {
		verr.add("firstName", valueReason(err, "name"))
	}
	lastName, err := models.NewName(req.LastName)
	if err != nil {
		verr.add("lastName", valueReason(err, "name"))
	}
	email, err := models.NewEmail(req.Email)
	if err != nil {
		verr.add("email", valueReason(err, "email"))
	}
	if len(req.Password) < constants.MinPasswordLength {
		verr.add("password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	} else if len(req.Password) > constants.MaxPasswordLength {
		verr.add("password", fmt.Sprintf("must be at most %d bytes", constants.MaxPasswordLength))
	}

	if err := verr.orNil(); err != nil {
		return services.RegisterCommand{}, err
	}
	return services.RegisterCommand{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  req.Password,
	}, nil
}

// Login prefers the email when both identifiers are sent.
func Login(req LoginRequest) (services.LoginCommand, error) {
	verr := &ValidationError{}

	identifier := strings.TrimSpace(req.Username)
	switch {
	case strings.TrimSpace(req.Email) != "":
		email, err := models.NewEmail(req.Email)
		if err != nil {
			verr.add("email", valueReason(err, "email"))
		}
		identifier = email.String()
	case identifier == "":
		verr.add("email", "is required when username is missing")
	}
	if req.Password == "" {
		verr.add("password", "is required")
	}

	if err := verr.orNil(); err != nil {
		return services.LoginCommand{}, err
	}
	return services.LoginCommand{Identifier: identifier, Password: req.Password}, nil
}

func GenerateTodos(req GenerateTodosRequest) (services.GenerateTodosCommand, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return services.GenerateTodosCommand{}, &ValidationError{Fields: []FieldError{{Path: "text", Reason: "is required"}}}
	}
	return services.GenerateTodosCommand{Text: text}, nil
}

// valueReason strips the subject from a value object error:
// "title is required" becomes "is required".
func valueReason(err error, subject string) string {
	return strings.TrimPrefix(err.Error(), subject+" ")
}
