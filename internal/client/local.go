package client

import (
	"context"

	"github.com/yukikurage/todo-api/internal/dto"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/validation"
)

var _ Backend = (*LocalBackend)(nil)

// LocalBackend runs the todo services in process on an in-memory repository.
// It applies the same validation as the HTTP handlers.
type LocalBackend struct {
	commands  *services.TodoCommands
	queries   *services.TodoQueries
	validator *validation.Validator
}

func NewLocalBackend() *LocalBackend {
	repo := repository.NewMemoryTodoRepository()
	return &LocalBackend{
		commands:  services.NewTodoCommands(repo, nil),
		queries:   services.NewTodoQueries(repo),
		validator: validation.New(),
	}
}

func (b *LocalBackend) ListTodos(ctx context.Context, filter Filter) ([]dto.TodoDTO, error) {
	list := b.queries.GetAll
	switch filter {
	case FilterActive:
		list = b.queries.GetActive
	case FilterCompleted:
		list = b.queries.GetCompleted
	}

	todos, err := list(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToTodoDTOs(todos), nil
}

func (b *LocalBackend) CreateTodo(ctx context.Context, req validation.CreateTodoRequest) (*dto.TodoDTO, error) {
	if err := b.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	cmd, err := validation.CreateTodo(req)
	if err != nil {
		return nil, err
	}

	todo, err := b.commands.CreateTodo(ctx, cmd)
	if err != nil {
		return nil, err
	}
	out := dto.ToTodoDTO(*todo)
	return &out, nil
}

func (b *LocalBackend) UpdateTodo(ctx context.Context, id string, req validation.UpdateTodoRequest) (*dto.TodoDTO, error) {
	if err := b.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	cmd, err := validation.UpdateTodo(req)
	if err != nil {
		return nil, err
	}

	todo, err := b.commands.UpdateTodo(ctx, id, cmd)
	if err != nil {
		return nil, err
	}
	out := dto.ToTodoDTO(*todo)
	return &out, nil
}

func (b *LocalBackend) ToggleTodo(ctx context.Context, id string) (*dto.TodoDTO, error) {
	todo, err := b.commands.ToggleTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToTodoDTO(*todo)
	return &out, nil
}

func (b *LocalBackend) DeleteTodo(ctx context.Context, id string) error {
	return b.commands.DeleteTodo(ctx, id)
}
