package redisrepo

import (
	"context"
	"errors"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

type Default interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Locker interface {
	// Acquire blocks until key is held or ctx is done. The returned func releases it.
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

type RepairQueue interface {
	Push(ctx context.Context, task model.RepairTask) error
	Pop(ctx context.Context, timeout time.Duration) (*model.RepairTask, error)
	Len(ctx context.Context) (int64, error)
}

type Options struct {
	LockTTL   time.Duration
	LockRetry time.Duration
}

type RedisRepository struct {
	Default
	Locker
	RepairQueue
}

func New(rdb *redis.Client, opts Options) *RedisRepository {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 15 * time.Second
	}
	if opts.LockRetry <= 0 {
		opts.LockRetry = 25 * time.Millisecond
	}

	return &RedisRepository{
		Default:     newDefaultRepo(rdb),
		Locker:      newLocker(rdb, opts.LockTTL, opts.LockRetry),
		RepairQueue: newRepairQueue(rdb),
	}
}
