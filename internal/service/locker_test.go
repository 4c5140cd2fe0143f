package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/memory"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	userID := uuid.New()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), userID)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locker.locks, "released locks are forgotten")
}

func TestLocalLocker_UsersAreIndependent(t *testing.T) {
	locker := NewLocalLocker()

	unlockA, err := locker.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	unlockB, err := locker.Lock(ctx, uuid.New())
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_ContextDone(t *testing.T) {
	locker := NewLocalLocker()
	userID := uuid.New()

	unlock, err := locker.Lock(context.Background(), userID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, userID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Empty(t, locker.locks)

	unlock, err = locker.Lock(context.Background(), userID)
	require.NoError(t, err)
	unlock()
}

// MockLocker is a mock implementation of redisrepo.Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

func TestRedisLocker(t *testing.T) {
	userID := uuid.New()
	key := redisrepo.UserPostsLockKey(userID.String())

	released := false
	release := func(context.Context) error {
		released = true
		return nil
	}

	locker := &MockLocker{}
	locker.On("Acquire", mock.Anything, key).Return(release, nil).Once()
	locker.On("Acquire", mock.Anything, key).Return(nil, redisrepo.ErrLockNotAcquired).Once()

	l := NewRedisLocker(zap.NewNop(), locker)

	unlock, err := l.Lock(context.Background(), userID)
	require.NoError(t, err)
	unlock()
	assert.True(t, released)

	_, err = l.Lock(context.Background(), userID)
	assert.ErrorIs(t, err, redisrepo.ErrLockNotAcquired)
	locker.AssertExpectations(t)
}

func TestNewIndexLocker(t *testing.T) {
	noRedis := &repository.Repository{Postgres: memory.New(memory.NewUserInfo())}
	withRedis := &repository.Repository{
		Postgres: noRedis.Postgres,
		Redis:    &redisrepo.RedisRepository{Locker: &MockLocker{}},
	}

	assert.IsType(t, NoopLocker{}, newIndexLocker(zap.NewNop(), noRedis, LockNone))
	assert.IsType(t, &LocalLocker{}, newIndexLocker(zap.NewNop(), noRedis, LockLocal))
	assert.IsType(t, &LocalLocker{}, newIndexLocker(zap.NewNop(), noRedis, LockRedis))
	assert.IsType(t, &RedisLocker{}, newIndexLocker(zap.NewNop(), withRedis, LockRedis))
	assert.IsType(t, &LocalLocker{}, newIndexLocker(zap.NewNop(), withRedis, ""))
}
