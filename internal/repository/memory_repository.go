package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/todo-api/internal/models"
)

var (
	_ TodoRepository = (*MemoryTodoRepository)(nil)
	_ UserRepository = (*MemoryUserRepository)(nil)
)

// MemoryTodoRepository keeps todos in a map. Values are copied on the way in
// and out so callers never share state with the store.
type MemoryTodoRepository struct {
	mu    sync.RWMutex
	todos map[string]models.Todo
	now   func() time.Time
}

// NewMemoryTodoRepository creates an empty in-memory TodoRepository
func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{
		todos: make(map[string]models.Todo),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryTodoRepository) Create(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	t := prepareTodo(todo, uuid.NewString(), r.now())

	r.mu.Lock()
	r.todos[t.ID] = t
	r.mu.Unlock()

	return &t, nil
}

func (r *MemoryTodoRepository) GetByID(_ context.Context, id string) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *MemoryTodoRepository) GetAll(_ context.Context) ([]models.Todo, error) {
	return r.list(func(models.Todo) bool { return true }), nil
}

func (r *MemoryTodoRepository) GetActive(_ context.Context) ([]models.Todo, error) {
	return r.list(func(t models.Todo) bool { return !t.Completed }), nil
}

func (r *MemoryTodoRepository) GetCompleted(_ context.Context) ([]models.Todo, error) {
	return r.list(func(t models.Todo) bool { return t.Completed }), nil
}

func (r *MemoryTodoRepository) Update(_ context.Context, id string, changes TodoChanges) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	changes.Apply(&t)
	t.UpdatedAt = r.now()
	r.todos[id] = t

	return &t, nil
}

func (r *MemoryTodoRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.todos)), nil
}

func (r *MemoryTodoRepository) list(keep func(models.Todo) bool) []models.Todo {
	r.mu.RLock()
	out := make([]models.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// MemoryUserRepository keeps users in a map indexed by ID, email and username.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	users      map[string]models.User
	byEmail    map[string]string
	byUsername map[string]string
	now        func() time.Time
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:      make(map[string]models.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, ErrDuplicate
	}
	if _, taken := r.byUsername[user.Username]; taken {
		return nil, ErrDuplicate
	}

	u := *user
	u.ID = uuid.NewString()
	now := r.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	r.users[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID

	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.lookup(ctx, r.byEmail, email)
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.lookup(ctx, r.byUsername, username)
}

func (r *MemoryUserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryUserRepository) UsernameExists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *MemoryUserRepository) lookup(ctx context.Context, index map[string]string, key string) (*models.User, error) {
	r.mu.RLock()
	id, ok := index[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
