package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

var _ TodoRepository = (*GormTodoRepository)(nil)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new TodoRepository backed by gorm
func NewGormTodoRepository(db *gorm.DB) *GormTodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	t := prepareTodo(todo, uuid.NewString(), time.Now().UTC())
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &t, nil
}

// GetByID finds a todo by ID
func (r *GormTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &todo, nil
}

// GetAll lists every todo
func (r *GormTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx)
}

// GetActive lists todos that are not completed
func (r *GormTodoRepository) GetActive(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx, database.CompletedIs(false))
}

// GetCompleted lists completed todos
func (r *GormTodoRepository) GetCompleted(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx, database.CompletedIs(true))
}

// Update applies partial changes to a todo
func (r *GormTodoRepository) Update(ctx context.Context, id string, changes TodoChanges) (*models.Todo, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Completed != nil {
		updates["completed"] = *changes.Completed
	}
	if changes.Priority != nil {
		updates["priority"] = *changes.Priority
	}
	if changes.ClearDueDate {
		updates["due_date"] = nil
	} else if changes.DueDate != nil {
		updates["due_date"] = changes.DueDate.UTC()
	}

	if err := r.db.WithContext(ctx).Model(&models.Todo{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateGormError(err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a todo
func (r *GormTodoRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Todo{})
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of todos
func (r *GormTodoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Todo{}).Count(&count).Error; err != nil {
		return 0, translateGormError(err)
	}
	return count, nil
}

func (r *GormTodoRepository) find(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Todo, error) {
	todos := []models.Todo{}
	query := r.db.WithContext(ctx).Scopes(scopes...).Scopes(database.NewestFirst)
	if err := query.Find(&todos).Error; err != nil {
		return nil, translateGormError(err)
	}
	return todos, nil
}

// translateGormError maps gorm errors onto the repository sentinels.
func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicate, err)
	default:
		return err
	}
}
