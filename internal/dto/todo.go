package dto

import (
	"time"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Completed bool            `json:"completed"`
	Priority  models.Priority `json:"priority"`
	DueDate   *time.Time      `json:"dueDate,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PriorityCountsDTO counts todos per priority
type PriorityCountsDTO struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// TodoStatsDTO represents GET /todos/stats
type TodoStatsDTO struct {
	Total      int               `json:"total"`
	Active     int               `json:"active"`
	Completed  int               `json:"completed"`
	Overdue    int               `json:"overdue"`
	ByPriority PriorityCountsDTO `json:"byPriority"`
}

// GeneratedTodoDTO is an unsaved todo suggestion
type GeneratedTodoDTO struct {
	Title    string          `json:"title"`
	Priority models.Priority `json:"priority"`
	DueDate  *time.Time      `json:"dueDate,omitempty"`
}

// Conversion functions

// ToTodoDTO converts a Todo model to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		Priority:  todo.Priority,
		DueDate:   todo.DueDate,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

// ToTodoDTOs converts a list, never returning nil
func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	dtos := make([]TodoDTO, 0, len(todos))
	for _, todo := range todos {
		dtos = append(dtos, ToTodoDTO(todo))
	}
	return dtos
}

func ToTodoStatsDTO(stats services.TodoStats) TodoStatsDTO {
	return TodoStatsDTO{
		Total:     stats.Total,
		Active:    stats.Active,
		Completed: stats.Completed,
		Overdue:   stats.Overdue,
		ByPriority: PriorityCountsDTO{
			Low:    stats.ByPriority.Low,
			Medium: stats.ByPriority.Medium,
			High:   stats.ByPriority.High,
		},
	}
}

func ToGeneratedTodoDTOs(todos []services.GeneratedTodo) []GeneratedTodoDTO {
	dtos := make([]GeneratedTodoDTO, 0, len(todos))
	for _, todo := range todos {
		dtos = append(dtos, GeneratedTodoDTO{
			Title:    todo.Title.String(),
			Priority: todo.Priority,
			DueDate:  todo.DueDate,
		})
	}
	return dtos
}
