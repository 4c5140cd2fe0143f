package service

import (
	"context"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"go.uber.org/zap"
)

type repairService struct {
	logger      *zap.Logger
	queue       redisrepo.RepairQueue
	writer      *indexWriter
	maxAttempts int
	pollTimeout time.Duration
}

func newRepairService(logger *zap.Logger, repo *repository.Repository, writer *indexWriter, opts Options) Repair {
	s := &repairService{
		logger:      logger,
		writer:      writer,
		maxAttempts: opts.RepairMaxAttempts,
		pollTimeout: opts.RepairPollTimeout,
	}
	if repo.Redis != nil {
		s.queue = repo.Redis.RepairQueue
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 5
	}
	if s.pollTimeout <= 0 {
		s.pollTimeout = 5 * time.Second
	}
	return s
}

func (s *repairService) Start(ctx context.Context) {
	if s.queue == nil {
		s.logger.Warn("no repair queue configured, index repair worker not started")
		return
	}

	pending, err := s.queue.Len(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get index repair queue length: %s", err.Error())
	}
	s.logger.Info("index repair worker started", zap.Int64("pending", pending))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("index repair worker stopped")
			return
		default:
		}

		s.RunOnce(ctx)
	}
}

func (s *repairService) RunOnce(ctx context.Context) bool {
	if s.queue == nil {
		return false
	}

	task, err := s.queue.Pop(ctx, s.pollTimeout)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Sugar().Errorf("failed to pop index repair task: %s", err.Error())
			s.wait(ctx)
		}
		return false
	}
	if task == nil {
		return false
	}

	if err := s.writer.apply(ctx, task.Op, task.UserID, task.Entry); err != nil {
		s.retry(ctx, *task, err)
		// the store is likely still failing, back off before the next task
		s.wait(ctx)
		return true
	}

	s.logger.Sugar().Infof("repaired user(%s) index: %s %s(%d)", task.UserID.String(), task.Op, task.Entry.Type, task.Entry.ID)
	return true
}

func (s *repairService) retry(ctx context.Context, task model.RepairTask, cause error) {
	task.Attempts++
	if task.Attempts >= s.maxAttempts {
		s.logger.Sugar().Errorf("giving up on user(%s) index %s of %s(%d) after %d attempts: %s",
			task.UserID.String(), task.Op, task.Entry.Type, task.Entry.ID, task.Attempts, cause.Error())
		return
	}

	if err := s.queue.Push(context.WithoutCancel(ctx), task); err != nil {
		s.logger.Sugar().Errorf("failed to requeue user(%s) index repair: %s", task.UserID.String(), err.Error())
	}
}

func (s *repairService) wait(ctx context.Context) {
	timer := time.NewTimer(s.pollTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
