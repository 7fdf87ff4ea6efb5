package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGormDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gorm.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Todo{}, &models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestGormTodoRepository(t *testing.T) {
	testTodoRepository(t, func(t *testing.T) TodoRepository {
		return NewGormTodoRepository(setupGormDB(t))
	})
}

func TestGormUserRepository(t *testing.T) {
	testUserRepository(t, func(t *testing.T) UserRepository {
		return NewGormUserRepository(setupGormDB(t))
	})
}
