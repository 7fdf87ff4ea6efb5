package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/logger"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

// countingRepository counts list calls that reach the backing store.
type countingRepository struct {
	repository.TodoRepository
	listCalls atomic.Int32
}

func (r *countingRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	r.listCalls.Add(1)
	return r.TodoRepository.GetAll(ctx)
}

// gatedRepository takes its first GetAll snapshot, then holds it until
// release is closed.
type gatedRepository struct {
	*countingRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedRepository() *gatedRepository {
	return &gatedRepository{
		countingRepository: &countingRepository{TodoRepository: repository.NewMemoryTodoRepository()},
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
}

func (r *gatedRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	list, err := r.countingRepository.GetAll(ctx)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return list, err
}

func newCache(t *testing.T, inner repository.TodoRepository) (*TodoRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewTodoRepository(inner, rdb, time.Minute, logger.Nop()), mr
}

func setupCache(t *testing.T) (*TodoRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()

	inner := &countingRepository{TodoRepository: repository.NewMemoryTodoRepository()}
	repo, mr := newCache(t, inner)
	return repo, inner, mr
}

func TestTodoRepository_ListIsCached(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, models.NewTodo("Buy milk", "", nil))
	require.NoError(t, err)

	first, err := repo.GetAll(ctx)
	require.NoError(t, err)
	second, err := repo.GetAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.listCalls.Load())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, mr.Exists(listKey(keyAll, 1)))
}

func TestTodoRepository_WritesInvalidate(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.NewTodo("Buy milk", "", nil))
	require.NoError(t, err)

	_, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(listKey(keyAll, 1)))

	done := true
	_, err = repo.Update(ctx, created.ID, repository.TodoChanges{Completed: &done})
	require.NoError(t, err)
	assert.False(t, mr.Exists(listKey(keyAll, 1)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Completed)
	assert.Equal(t, int32(2), inner.listCalls.Load())

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.False(t, mr.Exists(listKey(keyAll, 2)))

	gen, err := mr.Get(keyGeneration)
	require.NoError(t, err)
	assert.Equal(t, "3", gen)
}

func TestTodoRepository_FailedWriteKeepsCache(t *testing.T) {
	repo, _, mr := setupCache(t)
	ctx := context.Background()

	_, err := repo.GetAll(ctx)
	require.NoError(t, err)

	err = repo.Delete(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.True(t, mr.Exists(listKey(keyAll, 0)))
}

func TestTodoRepository_RedisDownFallsThrough(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, models.NewTodo("Buy milk", "", nil))
	require.NoError(t, err)

	mr.Close()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int32(1), inner.listCalls.Load())
}

func TestTodoRepository_WriteDuringLoadIsNotMasked(t *testing.T) {
	inner := newGatedRepository()
	repo, _ := newCache(t, inner)
	ctx := context.Background()

	loaded := make(chan []models.Todo, 1)
	go func() {
		list, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		loaded <- list
	}()

	<-inner.entered
	_, err := repo.Create(ctx, models.NewTodo("Buy milk", "", nil))
	require.NoError(t, err)
	close(inner.release)

	assert.Empty(t, <-loaded)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTodoRepository_ConcurrentMissesShareOneLoad(t *testing.T) {
	inner := newGatedRepository()
	repo, _ := newCache(t, inner)
	ctx := context.Background()

	_, err := inner.Create(ctx, models.NewTodo("Buy milk", "", nil))
	require.NoError(t, err)

	const readers = 8
	var wg sync.WaitGroup
	results := make([][]models.Todo, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			list, err := repo.GetAll(ctx)
			assert.NoError(t, err)
			results[i] = list
		}(i)
	}

	<-inner.entered
	// give the other readers time to join the in-flight load
	time.Sleep(100 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.listCalls.Load())
	for _, list := range results {
		assert.Len(t, list, 1)
	}
}
