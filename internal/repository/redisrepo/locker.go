package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the lock only if it still holds our token, so an expired lock
// re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type locker struct {
	rdb   *redis.Client
	ttl   time.Duration
	retry time.Duration
}

func newLocker(rdb *redis.Client, ttl time.Duration, retry time.Duration) Locker {
	return &locker{
		rdb:   rdb,
		ttl:   ttl,
		retry: retry,
	}
}

func (l *locker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.rdb, []string{key}, token).Err()
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, ctx.Err().Error())
		case <-ticker.C:
		}
	}
}
