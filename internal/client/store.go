package client

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/yukikurage/todo-api/internal/dto"
	"github.com/yukikurage/todo-api/internal/validation"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Backend is where the store reads and writes todos
type Backend interface {
	ListTodos(ctx context.Context, filter Filter) ([]dto.TodoDTO, error)
	CreateTodo(ctx context.Context, req validation.CreateTodoRequest) (*dto.TodoDTO, error)
	UpdateTodo(ctx context.Context, id string, req validation.UpdateTodoRequest) (*dto.TodoDTO, error)
	ToggleTodo(ctx context.Context, id string) (*dto.TodoDTO, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Settings selects the backend. USE_API_BACKEND=true talks to the server at
// API_URL; otherwise todos live in process.
type Settings struct {
	UseAPIBackend bool   `env:"USE_API_BACKEND" envDefault:"false"`
	APIURL        string `env:"API_URL" envDefault:"http://localhost:8080/api"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse client settings: %w", err)
	}
	return s, nil
}

// UseAPIBackend reports whether USE_API_BACKEND asks for the HTTP backend.
// Unparseable values count as false.
func UseAPIBackend() bool {
	s, err := LoadSettings()
	return err == nil && s.UseAPIBackend
}

// NewBackend returns the HTTP client or the in-process backend per s.
func NewBackend(s Settings, opts ...Option) Backend {
	if s.UseAPIBackend {
		return New(s.APIURL, opts...)
	}
	return NewLocalBackend()
}

// State is a snapshot of the todo list as a UI would render it.
type State struct {
	Todos  []dto.TodoDTO
	Status Status
	Err    string
	Filter Filter
}

// Store holds the todo list state. Each operation marks the state loading,
// calls the backend, then records success or the error message.
type Store struct {
	backend Backend

	mu    sync.RWMutex
	state State
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		state: State{
			Todos:  []dto.TodoDTO{},
			Status: StatusIdle,
			Filter: FilterAll,
		},
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Todos = slices.Clone(s.state.Todos)
	return st
}

// Fetch replaces the list with every todo from the backend.
func (s *Store) Fetch(ctx context.Context) error {
	return s.run(func() error {
		todos, err := s.backend.ListTodos(ctx, FilterAll)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.state.Todos = todos
		s.mu.Unlock()
		return nil
	})
}

// Add creates a todo and puts it at the top of the list.
func (s *Store) Add(ctx context.Context, req validation.CreateTodoRequest) error {
	return s.run(func() error {
		todo, err := s.backend.CreateTodo(ctx, req)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.state.Todos = append([]dto.TodoDTO{*todo}, s.state.Todos...)
		s.mu.Unlock()
		return nil
	})
}

func (s *Store) Toggle(ctx context.Context, id string) error {
	return s.run(func() error {
		todo, err := s.backend.ToggleTodo(ctx, id)
		if err != nil {
			return err
		}
		s.replace(*todo)
		return nil
	})
}

func (s *Store) Edit(ctx context.Context, id string, req validation.UpdateTodoRequest) error {
	return s.run(func() error {
		todo, err := s.backend.UpdateTodo(ctx, id, req)
		if err != nil {
			return err
		}
		s.replace(*todo)
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, id string) error {
	return s.run(func() error {
		if err := s.backend.DeleteTodo(ctx, id); err != nil {
			return err
		}
		s.mu.Lock()
		s.state.Todos = slices.DeleteFunc(s.state.Todos, func(t dto.TodoDTO) bool { return t.ID == id })
		s.mu.Unlock()
		return nil
	})
}

func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.state.Filter = f
	s.mu.Unlock()
}

// Visible returns the todos that pass the current filter.
func (s *Store) Visible() []dto.TodoDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]dto.TodoDTO, 0, len(s.state.Todos))
	for _, t := range s.state.Todos {
		switch {
		case s.state.Filter == FilterActive && t.Completed:
		case s.state.Filter == FilterCompleted && !t.Completed:
		default:
			visible = append(visible, t)
		}
	}
	return visible
}

func (s *Store) replace(todo dto.TodoDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.state.Todos, func(t dto.TodoDTO) bool { return t.ID == todo.ID }); i >= 0 {
		s.state.Todos[i] = todo
	}
}

func (s *Store) run(op func() error) error {
	s.mu.Lock()
	s.state.Status = StatusLoading
	s.state.Err = ""
	s.mu.Unlock()

	err := op()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.Status = StatusFailed
		s.state.Err = err.Error()
		return err
	}
	s.state.Status = StatusSucceeded
	return nil
}
