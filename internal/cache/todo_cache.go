package cache

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

const (
	keyGeneration = "todo:list:gen"

	keyAll       = "todo:list:all"
	keyActive    = "todo:list:active"
	keyCompleted = "todo:list:completed"
)

var _ repository.TodoRepository = (*TodoRepository)(nil)

// TodoRepository caches the list queries of another TodoRepository in Redis.
//
// List keys carry a generation number and every successful write bumps it, so
// a load that started before a write can only fill a key nobody reads anymore.
// Concurrent misses on the same key share one load. Redis failures are logged
// and the call falls through to the wrapped repository.
type TodoRepository struct {
	next repository.TodoRepository
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
	sf   singleflight.Group
}

// NewTodoRepository wraps next with a read-through list cache.
func NewTodoRepository(next repository.TodoRepository, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *TodoRepository {
	return &TodoRepository{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "todo_cache").Logger(),
	}
}

func (c *TodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	created, err := c.next.Create(ctx, todo)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *TodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	return c.next.GetByID(ctx, id)
}

func (c *TodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return c.cachedList(ctx, keyAll, c.next.GetAll)
}

func (c *TodoRepository) GetActive(ctx context.Context) ([]models.Todo, error) {
	return c.cachedList(ctx, keyActive, c.next.GetActive)
}

func (c *TodoRepository) GetCompleted(ctx context.Context) ([]models.Todo, error) {
	return c.cachedList(ctx, keyCompleted, c.next.GetCompleted)
}

func (c *TodoRepository) Update(ctx context.Context, id string, changes repository.TodoChanges) (*models.Todo, error) {
	updated, err := c.next.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return updated, nil
}

func (c *TodoRepository) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *TodoRepository) Count(ctx context.Context) (int64, error) {
	return c.next.Count(ctx)
}

func listKey(base string, gen int64) string {
	return base + ":" + strconv.FormatInt(gen, 10)
}

func (c *TodoRepository) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *TodoRepository) cachedList(ctx context.Context, base string, load func(context.Context) ([]models.Todo, error)) ([]models.Todo, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache generation read failed")
		return load(ctx)
	}
	key := listKey(base, gen)

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var list []models.Todo
		if err := json.Unmarshal(b, &list); err == nil {
			return list, nil
		}
		c.log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		list, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if b, err := json.Marshal(list); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	// callers sharing a load must not share the backing array
	return slices.Clone(v.([]models.Todo)), nil
}

// invalidate moves readers to a new generation and drops the previous one.
func (c *TodoRepository) invalidate(ctx context.Context) {
	gen, err := c.rdb.Incr(ctx, keyGeneration).Result()
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache invalidation failed")
		return
	}

	prev := gen - 1
	if err := c.rdb.Del(ctx, listKey(keyAll, prev), listKey(keyActive, prev), listKey(keyCompleted, prev)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Dropping stale cache entries failed")
	}
}
