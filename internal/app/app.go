package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yukikurage/todo-api/internal/cache"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/token"
)

// App holds the dependency graph of the server. Everything is built in New
// and passed down explicitly.
type App struct {
	cfg          *config.Config
	log          zerolog.Logger
	storage      *storage
	redis        *redis.Client
	sessionStore sessions.Store
	tokens       *token.Manager
	todoHandler  *handlers.TodoHandler
	authHandler  *handlers.AuthHandler
	health       *handlers.HealthHandler
}

// New opens storage for cfg and wires services and handlers on top of it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := openStorage(ctx, cfg.Database, cfg.Mongo, cfg.AppEnv, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		storage: store,
		tokens:  token.NewManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
	}

	todos := store.todos
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		todos = cache.NewTodoRepository(todos, a.redis, cfg.Redis.CacheTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("Todo cache enabled")
	}

	if a.sessionStore, err = a.newSessionStore(); err != nil {
		_ = a.Close()
		return nil, err
	}

	// Initialize AI service
	var generator services.TodoGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}

	a.todoHandler = handlers.NewTodoHandler(services.NewTodoCommands(todos, generator), services.NewTodoQueries(todos))
	a.authHandler = handlers.NewAuthHandler(services.NewAuthService(store.users, a.tokens))
	a.health = handlers.NewHealthHandler(store.name, store.ping)

	return a, nil
}

// newSessionStore keeps sessions in Redis when it is configured and in signed
// cookies otherwise.
func (a *App) newSessionStore() (sessions.Store, error) {
	var store sessions.Store
	if a.cfg.Redis.Addr != "" {
		s, err := redisStore.NewStore(
			10,                          // Redis pool size
			"tcp",                       // network type
			a.cfg.Redis.Addr,            // Redis address from config
			"",                          // username (empty for default user)
			a.cfg.Redis.Password,        // password (empty = no password)
			[]byte(a.cfg.SessionSecret), // authentication key
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		store = s
	} else {
		store = cookie.NewStore([]byte(a.cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(a.cfg.JWT.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: 2, // Lax
	})
	return store, nil
}

// Close releases storage and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.storage != nil {
		errs = append(errs, a.storage.close())
	}
	return errors.Join(errs...)
}
