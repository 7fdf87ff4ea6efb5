package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/todo-api/internal/models"
)

func TestPrepareMongoTodo_MillisecondTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	due := time.Date(2026, 3, 2, 9, 30, 0, 987654321, time.UTC)

	todo := prepareMongoTodo(models.NewTodo("Buy milk", "", &due), "id-1", now)

	assert.Equal(t, "id-1", todo.ID)
	assert.Equal(t, 123000000, todo.UpdatedAt.Nanosecond())
	assert.Zero(t, todo.CreatedAt.Nanosecond()%int(time.Millisecond))
	if assert.NotNil(t, todo.DueDate) {
		assert.Equal(t, 987000000, todo.DueDate.Nanosecond())
	}
	assert.Equal(t, 987654321, due.Nanosecond())
}
