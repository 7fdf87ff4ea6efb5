package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes used by the todo list filters.
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		{&models.Todo{}, "todos", "idx_todos_completed", "completed"},
		{&models.Todo{}, "todos", "idx_todos_created_at", "created_at"},
		{&models.Todo{}, "todos", "idx_todos_due_date", "due_date"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Debug().Str("index", idx.name).Str("table", idx.table).Msg("Created index")
	}

	return nil
}
