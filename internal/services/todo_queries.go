package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

// PriorityCounts counts todos per priority
type PriorityCounts struct {
	Low    int
	Medium int
	High   int
}

// TodoStats summarizes every stored todo
type TodoStats struct {
	Total      int
	Active     int
	Completed  int
	Overdue    int
	ByPriority PriorityCounts
}

// TodoQueries handles every todo read
type TodoQueries struct {
	repo repository.TodoRepository
	now  func() time.Time
}

func NewTodoQueries(repo repository.TodoRepository) *TodoQueries {
	return &TodoQueries{
		repo: repo,
		now:  time.Now,
	}
}

func (q *TodoQueries) GetAll(ctx context.Context) ([]models.Todo, error) {
	todos, err := q.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (q *TodoQueries) GetActive(ctx context.Context) ([]models.Todo, error) {
	todos, err := q.repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active todos: %w", err)
	}
	return todos, nil
}

func (q *TodoQueries) GetCompleted(ctx context.Context) ([]models.Todo, error) {
	todos, err := q.repo.GetCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed todos: %w", err)
	}
	return todos, nil
}

func (q *TodoQueries) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := q.repo.GetByID(ctx, id)
	if err != nil {
		return nil, todoError(err, "failed to find todo")
	}
	return todo, nil
}

// GetStats counts todos by state and priority. Overdue counts active todos
// whose due date has passed.
func (q *TodoQueries) GetStats(ctx context.Context) (*TodoStats, error) {
	todos, err := q.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	now := q.now()
	stats := &TodoStats{Total: len(todos)}
	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
		if todo.IsOverdue(now) {
			stats.Overdue++
		}

		switch todo.Priority {
		case models.PriorityLow:
			stats.ByPriority.Low++
		case models.PriorityHigh:
			stats.ByPriority.High++
		default:
			stats.ByPriority.Medium++
		}
	}

	return stats, nil
}
