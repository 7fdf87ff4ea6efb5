package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/repository"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// storage is the repository pair for the configured backend
type storage struct {
	name  string
	todos repository.TodoRepository
	users repository.UserRepository
	ping  handlers.Pinger
	close func() error
}

func openStorage(ctx context.Context, cfg config.Database, mongoCfg config.Mongo, appEnv string, log zerolog.Logger) (*storage, error) {
	switch {
	case cfg.Type == config.DBTypeMemory:
		log.Info().Str("db_type", cfg.Type).Msg("Using in-memory storage")
		return &storage{
			name:  cfg.Type,
			todos: repository.NewMemoryTodoRepository(),
			users: repository.NewMemoryUserRepository(),
			close: func() error { return nil },
		}, nil

	case cfg.Type == config.DBTypeMongo:
		client, db, err := database.ConnectMongo(ctx, mongoCfg, log)
		if err != nil {
			return nil, err
		}
		closeClient := func() error { return client.Disconnect(context.Background()) }

		todos, err := repository.NewMongoTodoRepository(ctx, db)
		if err != nil {
			_ = closeClient()
			return nil, err
		}
		users, err := repository.NewMongoUserRepository(ctx, db)
		if err != nil {
			_ = closeClient()
			return nil, err
		}
		return &storage{
			name:  cfg.Type,
			todos: todos,
			users: users,
			ping:  func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close: closeClient,
		}, nil

	case cfg.ORM == config.ORMSQL:
		db, dialect, err := database.OpenSQL(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &storage{
			name:  cfg.Type,
			todos: repository.NewSQLTodoRepository(db, dialect),
			users: repository.NewSQLUserRepository(db, dialect),
			ping:  db.PingContext,
			close: db.Close,
		}, nil

	case cfg.ORM == config.ORMGorm:
		db, err := database.OpenGorm(cfg, appEnv, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		if err := database.Migrate(db, log); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return &storage{
			name:  cfg.Type,
			todos: repository.NewGormTodoRepository(db),
			users: repository.NewGormUserRepository(db),
			ping:  sqlDB.PingContext,
			close: sqlDB.Close,
		}, nil
	}

	return nil, fmt.Errorf("unsupported storage: DB_TYPE=%s DB_ORM=%s", cfg.Type, cfg.ORM)
}
