package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/memory"
	"github.com/Lee-sungheon/Loopin/internal/repository/postgres"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPosts is a mock implementation of postgres.Posts
type MockPosts[T model.Post] struct {
	mock.Mock
}

func (m *MockPosts[T]) FindAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockPosts[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockPosts[T]) Create(ctx context.Context, post T) (*T, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockPosts[T]) Update(ctx context.Context, id int64, patch model.Patch) (*T, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockPosts[T]) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserInfo is a mock implementation of postgres.UserInfo
type MockUserInfo struct {
	mock.Mock
}

func (m *MockUserInfo) FindPosts(ctx context.Context, userID uuid.UUID) (model.PostIndex, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PostIndex), args.Error(1)
}

func (m *MockUserInfo) UpdatePosts(ctx context.Context, userID uuid.UUID, posts model.PostIndex) error {
	args := m.Called(ctx, userID, posts)
	return args.Error(0)
}

// fakeQueue behaves like the redis list: Push adds to the head, Pop takes from the tail.
type fakeQueue struct {
	mu      sync.Mutex
	tasks   []model.RepairTask
	pushErr error
}

func (q *fakeQueue) Push(ctx context.Context, task model.RepairTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pushErr != nil {
		return q.pushErr
	}
	q.tasks = append([]model.RepairTask{task}, q.tasks...)
	return nil
}

// Pop waits out timeout on an empty queue, as BRPOP does.
func (q *fakeQueue) Pop(ctx context.Context, timeout time.Duration) (*model.RepairTask, error) {
	q.mu.Lock()
	if len(q.tasks) == 0 {
		q.mu.Unlock()

		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
		return nil, nil
	}
	defer q.mu.Unlock()

	task := q.tasks[len(q.tasks)-1]
	q.tasks = q.tasks[:len(q.tasks)-1]
	return &task, nil
}

func (q *fakeQueue) Len(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}

func (q *fakeQueue) all() []model.RepairTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.RepairTask(nil), q.tasks...)
}

// fakeCache keeps values in memory and ignores ttl.
type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = string(data)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

type testEnv struct {
	tables *postgres.PostgresRepository
	users  *memory.UserInfo
	queue  *fakeQueue
	cache  *fakeCache
	svc    *Service
}

// newTestEnv builds a service over the in-memory store. customize may swap tables before
// the service is built.
func newTestEnv(opts Options, customize func(*postgres.PostgresRepository)) *testEnv {
	users := memory.NewUserInfo()
	tables := memory.New(users)
	if customize != nil {
		customize(tables)
	}

	queue := &fakeQueue{}
	cache := newFakeCache()
	repo := repository.New(tables, nil, redisrepo.Options{})
	repo.Redis = &redisrepo.RedisRepository{Default: cache, RepairQueue: queue}

	if opts.IndexLock == "" {
		opts.IndexLock = LockLocal
	}
	if opts.RepairPollTimeout == 0 {
		opts.RepairPollTimeout = time.Millisecond
	}

	return &testEnv{
		tables: tables,
		users:  users,
		queue:  queue,
		cache:  cache,
		svc:    New(zap.NewNop(), repo, opts),
	}
}

func (e *testEnv) index(userID uuid.UUID) model.PostIndex {
	posts, err := e.users.FindPosts(context.Background(), userID)
	if err != nil {
		return nil
	}
	return posts
}
