package service

import (
	"context"
	"sync"

	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndexLocker serializes writers of one user's post index.
type IndexLocker interface {
	Lock(ctx context.Context, userID uuid.UUID) (unlock func(), err error)
}

func newIndexLocker(logger *zap.Logger, repo *repository.Repository, kind string) IndexLocker {
	switch kind {
	case LockNone:
		logger.Warn("user post index writes are not serialized, concurrent creates may lose index entries")
		return NoopLocker{}
	case LockRedis:
		if repo.Redis != nil && repo.Redis.Locker != nil {
			return NewRedisLocker(logger, repo.Redis.Locker)
		}
		logger.Warn("redis locker unavailable, falling back to in-process index lock")
	}
	return NewLocalLocker()
}

// NoopLocker performs no serialization. Concurrent index writes for a user can lose updates.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, uuid.UUID) (func(), error) {
	return func() {}, nil
}

type localLock struct {
	ch   chan struct{}
	refs int
}

// LocalLocker is a per-user mutex for a single process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*localLock
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		locks: make(map[uuid.UUID]*localLock),
	}
}

func (l *LocalLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &localLock{ch: make(chan struct{}, 1)}
		l.locks[userID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.release(userID, lock)
		})
	}, nil
}

func (l *LocalLocker) release(userID uuid.UUID, lock *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, userID)
	}
}

// RedisLocker holds the index lock in redis so several processes can share it.
type RedisLocker struct {
	logger *zap.Logger
	locker redisrepo.Locker
}

func NewRedisLocker(logger *zap.Logger, locker redisrepo.Locker) *RedisLocker {
	return &RedisLocker{
		logger: logger,
		locker: locker,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	release, err := l.locker.Acquire(ctx, redisrepo.UserPostsLockKey(userID.String()))
	if err != nil {
		return nil, err
	}

	return func() {
		if err := release(context.Background()); err != nil {
			l.logger.Sugar().Errorf("failed to release user(%s) post index lock: %s", userID.String(), err.Error())
		}
	}, nil
}
