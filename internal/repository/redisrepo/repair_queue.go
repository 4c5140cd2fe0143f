package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/redis/go-redis/v9"
)

type repairQueue struct {
	rdb *redis.Client
	key string
}

func newRepairQueue(rdb *redis.Client) RepairQueue {
	return &repairQueue{
		rdb: rdb,
		key: REPAIR_QUEUE_KEY,
	}
}

func (q *repairQueue) Push(ctx context.Context, task model.RepairTask) error {
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return q.rdb.LPush(ctx, q.key, taskJSON).Err()
}

// Pop blocks up to timeout. It returns nil, nil when nothing arrived.
func (q *repairQueue) Pop(ctx context.Context, timeout time.Duration) (*model.RepairTask, error) {
	result, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var task model.RepairTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (q *repairQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
