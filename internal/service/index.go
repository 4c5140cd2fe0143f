package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/postgres"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// indexWriter performs the read-modify-write of userinfo.posts.
type indexWriter struct {
	logger        *zap.Logger
	users         postgres.UserInfo
	locker        IndexLocker
	queue         redisrepo.RepairQueue
	cache         redisrepo.Default
	lockTimeout   time.Duration
	remoteTimeout time.Duration
}

func newIndexWriter(logger *zap.Logger, repo *repository.Repository, locker IndexLocker, opts Options) *indexWriter {
	w := &indexWriter{
		logger:        logger,
		users:         repo.Postgres.UserInfo,
		locker:        locker,
		lockTimeout:   opts.LockTimeout,
		remoteTimeout: opts.RemoteTimeout,
	}
	if repo.Redis != nil {
		w.queue = repo.Redis.RepairQueue
		w.cache = repo.Redis.Default
	}
	return w
}

func (w *indexWriter) Append(ctx context.Context, userID uuid.UUID, entry model.IndexEntry) error {
	return w.applyOrQueue(ctx, model.RepairAppend, userID, entry)
}

func (w *indexWriter) Remove(ctx context.Context, userID uuid.UUID, entry model.IndexEntry) error {
	return w.applyOrQueue(ctx, model.RepairRemove, userID, entry)
}

func (w *indexWriter) applyOrQueue(ctx context.Context, op model.RepairOp, userID uuid.UUID, entry model.IndexEntry) error {
	err := w.apply(ctx, op, userID, entry)
	if err == nil {
		return nil
	}

	w.enqueue(ctx, model.RepairTask{
		Op:       op,
		UserID:   userID,
		Entry:    entry,
		QueuedAt: time.Now(),
	})

	return fmt.Errorf("%w: %w", ErrConsistencyDrift, err)
}

// apply is idempotent: appending a present entry or removing an absent one writes nothing.
func (w *indexWriter) apply(ctx context.Context, op model.RepairOp, userID uuid.UUID, entry model.IndexEntry) error {
	unlock, err := lockIndex(ctx, w.logger, w.locker, w.lockTimeout, userID)
	if err != nil {
		return err
	}
	defer unlock()

	ctx, cancel := withTimeout(ctx, w.remoteTimeout)
	defer cancel()

	posts, err := w.users.FindPosts(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			w.logger.Sugar().Errorf("user(%s) not found while updating post index", userID.String())
			return ErrUserNotFound
		}
		w.logger.Sugar().Errorf("failed to get user(%s) post index: %s", userID.String(), err.Error())
		return ErrRemoteRead
	}

	var next model.PostIndex
	switch op {
	case model.RepairAppend:
		if posts.Contains(entry) {
			return nil
		}
		next, err = posts.With(entry)
		if err != nil {
			return ErrInvalidInput
		}
	case model.RepairRemove:
		var removed int
		next, removed = posts.Without(entry)
		if removed == 0 {
			return nil
		}
	default:
		return ErrInvalidInput
	}

	if err := w.users.UpdatePosts(ctx, userID, next); err != nil {
		w.logger.Sugar().Errorf("failed to update user(%s) post index: %s", userID.String(), err.Error())
		return ErrRemoteWrite
	}

	// still under the lock, so no reader can cache the previous list after this
	w.invalidate(ctx, userID)

	return nil
}

// lockIndex waits up to timeout for userID's index lock. Waiting too long is ErrLockTimeout,
// a failing lock backend is ErrRemoteRead.
func lockIndex(ctx context.Context, logger *zap.Logger, locker IndexLocker, timeout time.Duration, userID uuid.UUID) (func(), error) {
	lockCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	unlock, err := locker.Lock(lockCtx, userID)
	if err == nil {
		return unlock, nil
	}

	logger.Sugar().Errorf("failed to lock user(%s) post index: %s", userID.String(), err.Error())
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, redisrepo.ErrLockNotAcquired) {
		return nil, ErrLockTimeout
	}
	return nil, ErrRemoteRead
}

func (w *indexWriter) enqueue(ctx context.Context, task model.RepairTask) {
	if w.queue == nil {
		w.logger.Sugar().Errorf("no repair queue, user(%s) index %s of %s(%d) is lost", task.UserID.String(), task.Op, task.Entry.Type, task.Entry.ID)
		return
	}

	if err := w.queue.Push(context.WithoutCancel(ctx), task); err != nil {
		w.logger.Sugar().Errorf("failed to queue user(%s) index repair: %s", task.UserID.String(), err.Error())
	}
}

func (w *indexWriter) invalidate(ctx context.Context, userID uuid.UUID) {
	if w.cache == nil {
		return
	}

	if err := w.cache.Del(ctx, redisrepo.UserPostsKey(userID.String())).Err(); err != nil {
		w.logger.Sugar().Errorf("failed to delete user(%s) posts from redis: %s", userID.String(), err.Error())
	}
}

type indexService struct {
	logger      *zap.Logger
	users       postgres.UserInfo
	cache       redisrepo.Default
	locker        IndexLocker
	lockTimeout   time.Duration
	remoteTimeout time.Duration
	ttl           time.Duration
}

func newIndexService(logger *zap.Logger, repo *repository.Repository, locker IndexLocker, opts Options) Index {
	s := &indexService{
		logger:        logger,
		users:         repo.Postgres.UserInfo,
		locker:        locker,
		lockTimeout:   opts.LockTimeout,
		remoteTimeout: opts.RemoteTimeout,
		ttl:           opts.IndexCacheTTL,
	}
	if repo.Redis != nil {
		s.cache = repo.Redis.Default
	}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}
	return s
}

func (s *indexService) FindUserPosts(ctx context.Context, userID uuid.UUID) ([]model.IndexEntry, error) {
	key := redisrepo.UserPostsKey(userID.String())

	if s.cache == nil {
		return s.findPosts(ctx, userID)
	}

	cached, err := redisrepo.GetMany[model.IndexEntry](s.cache, ctx, key)
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get user(%s) posts from redis: %s", userID.String(), err.Error())
	}

	// Filling the cache under the index lock keeps a concurrent writer from
	// invalidating the key between our read and our write of it.
	unlock, err := lockIndex(ctx, s.logger, s.locker, s.lockTimeout, userID)
	if err != nil {
		return s.findPosts(ctx, userID)
	}
	defer unlock()

	entries, err := s.findPosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, entries, s.ttl); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) posts in redis: %s", userID.String(), err.Error())
	}

	return entries, nil
}

func (s *indexService) findPosts(ctx context.Context, userID uuid.UUID) ([]model.IndexEntry, error) {
	ctx, cancel := withTimeout(ctx, s.remoteTimeout)
	defer cancel()

	posts, err := s.users.FindPosts(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to get user(%s) posts from postgres: %s", userID.String(), err.Error())
		return nil, ErrRemoteRead
	}

	return posts.Entries(), nil
}
