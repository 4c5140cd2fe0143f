package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/memory"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRepair_RunOnceEmpty(t *testing.T) {
	env := newTestEnv(Options{}, nil)
	assert.False(t, env.svc.RunOnce(context.Background()))
}

func TestRepair_AppliesQueuedTask(t *testing.T) {
	env := newTestEnv(Options{}, nil)
	userID := uuid.New()

	// the user row appears only after the create drifted
	post, err := env.svc.Lounge.Create(context.Background(), model.LoungePost{Content: "late"}, userID)
	require.ErrorIs(t, err, ErrConsistencyDrift)
	require.Len(t, env.queue.all(), 1)

	env.users.AddUser(userID)

	assert.True(t, env.svc.RunOnce(context.Background()))
	assert.Empty(t, env.queue.all())
	assert.Equal(t, []model.IndexEntry{{ID: post.ID, Type: model.CategoryLounge}}, env.index(userID).Entries())
}

func TestRepair_RetriesThenDrops(t *testing.T) {
	env := newTestEnv(Options{RepairMaxAttempts: 2}, nil)
	userID := uuid.New()

	require.NoError(t, env.queue.Push(context.Background(), model.RepairTask{
		Op:     model.RepairRemove,
		UserID: userID,
		Entry:  model.IndexEntry{ID: 1, Type: model.CategoryClub},
	}))

	assert.True(t, env.svc.RunOnce(context.Background()))
	tasks := env.queue.all()
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].Attempts)

	assert.True(t, env.svc.RunOnce(context.Background()))
	assert.Empty(t, env.queue.all())
}

func TestRepair_StartUntilCancelled(t *testing.T) {
	env := newTestEnv(Options{}, nil)
	userID := uuid.New()
	env.users.AddUser(userID)

	require.NoError(t, env.queue.Push(context.Background(), model.RepairTask{
		Op:     model.RepairAppend,
		UserID: userID,
		Entry:  model.IndexEntry{ID: 8, Type: model.CategoryChallenge},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.svc.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return env.index(userID).Contains(model.IndexEntry{ID: 8, Type: model.CategoryChallenge})
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("repair worker did not stop")
	}
}

func TestRepair_StartWithoutQueue(t *testing.T) {
	repo := &repository.Repository{Postgres: memory.New(memory.NewUserInfo())}
	svc := New(zap.NewNop(), repo, Options{})

	done := make(chan struct{})
	go func() {
		svc.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker without a queue should return immediately")
	}
	assert.False(t, svc.RunOnce(context.Background()))
}

func TestRepair_StartReportsBacklog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	queue := &fakeQueue{}
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, queue.Push(context.Background(), model.RepairTask{
			Op:     model.RepairRemove,
			UserID: uuid.New(),
			Entry:  model.IndexEntry{ID: id, Type: model.CategoryClub},
		}))
	}

	repo := &repository.Repository{
		Postgres: memory.New(memory.NewUserInfo()),
		Redis:    &redisrepo.RedisRepository{RepairQueue: queue},
	}
	svc := New(zap.New(core), repo, Options{IndexLock: LockLocal, RepairPollTimeout: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Start(ctx)

	started := logs.FilterMessage("index repair worker started").All()
	require.Len(t, started, 1)
	assert.Equal(t, int64(3), started[0].ContextMap()["pending"])
}
