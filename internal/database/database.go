package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm opens a gorm connection for the configured DB_TYPE.
func OpenGorm(cfg config.Database, appEnv string, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case config.DBTypeSQLite:
		dialector = sqlite.Open(cfg.Path)
	case config.DBTypePostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DBTypeMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("gorm does not support DB_TYPE %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(appEnv, log),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("db_type", cfg.Type).Str("orm", config.ORMGorm).Msg("Database connection established")
	return db, nil
}

func Migrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&models.Todo{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Msg("Database migrations completed")
	return nil
}

// gormLogWriter routes gorm's printf-style logger into zerolog.
type gormLogWriter struct {
	log zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msgf(format, args...)
}

func newGormLogger(appEnv string, log zerolog.Logger) logger.Interface {
	level := logger.Warn
	switch appEnv {
	case config.EnvDevelopment:
		level = logger.Info
	case config.EnvTest:
		level = logger.Silent
	}

	return logger.New(gormLogWriter{log: log.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
