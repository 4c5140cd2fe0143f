package service

import (
	"context"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/dto"
	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	LockRedis = "redis"
	LockLocal = "local"
	LockNone  = "none"
)

type Options struct {
	// IndexLock selects how index read-modify-writes are serialized per user.
	IndexLock           string
	LockTimeout         time.Duration
	RemoteTimeout       time.Duration
	LoungeDeleteUnindex bool
	RepairMaxAttempts   int
	RepairPollTimeout   time.Duration
	IndexCacheTTL       time.Duration
}

type Index interface {
	FindUserPosts(ctx context.Context, userID uuid.UUID) ([]model.IndexEntry, error)
}

type Repair interface {
	// Start consumes repair tasks until ctx is done.
	Start(ctx context.Context)
	// RunOnce handles at most one task and reports whether one was taken.
	RunOnce(ctx context.Context) bool
}

// Service is the post ledger façade: one Ledger per post table sharing a user index.
type Service struct {
	Club      *Ledger[model.ClubPost]
	Challenge *Ledger[model.ChallengePost]
	Lounge    *Ledger[model.LoungePost]
	Socialing *Ledger[model.SocialingPost]
	Index
	Repair
}

func New(logger *zap.Logger, repo *repository.Repository, opts Options) *Service {
	locker := newIndexLocker(logger, repo, opts.IndexLock)
	writer := newIndexWriter(logger, repo, locker, opts)

	return &Service{
		Club:      newLedger[model.ClubPost](logger, repo.Postgres.Club, writer, ledgerOptions{unindexOnDelete: true, remoteTimeout: opts.RemoteTimeout}),
		Challenge: newLedger[model.ChallengePost](logger, repo.Postgres.Challenge, writer, ledgerOptions{unindexOnDelete: true, remoteTimeout: opts.RemoteTimeout}),
		Lounge:    newLedger[model.LoungePost](logger, repo.Postgres.Lounge, writer, ledgerOptions{optimistic: true, newestFirst: true, unindexOnDelete: opts.LoungeDeleteUnindex, remoteTimeout: opts.RemoteTimeout}),
		Socialing: newLedger[model.SocialingPost](logger, repo.Postgres.Socialing, writer, ledgerOptions{unindexOnDelete: true, remoteTimeout: opts.RemoteTimeout}),
		Index:     newIndexService(logger, repo, locker, opts),
		Repair:    newRepairService(logger, repo, writer, opts),
	}
}

func (s *Service) CreateClubPost(ctx context.Context, req dto.CreateClubPostRequest, userID uuid.UUID) (*model.ClubPost, error) {
	post, err := NewClubPost(req, userID)
	if err != nil {
		return nil, err
	}
	return s.Club.Create(ctx, post, userID)
}

func (s *Service) CreateChallengePost(ctx context.Context, req dto.CreateChallengePostRequest, userID uuid.UUID) (*model.ChallengePost, error) {
	post, err := NewChallengePost(req, userID)
	if err != nil {
		return nil, err
	}
	return s.Challenge.Create(ctx, post, userID)
}

func (s *Service) CreateLoungePost(ctx context.Context, req dto.CreateLoungePostRequest, userID uuid.UUID) (*model.LoungePost, error) {
	post, err := NewLoungePost(req, userID)
	if err != nil {
		return nil, err
	}
	return s.Lounge.Create(ctx, post, userID)
}

func (s *Service) CreateSocialingPost(ctx context.Context, req dto.CreateSocialingPostRequest, userID uuid.UUID) (*model.SocialingPost, error) {
	post, err := NewSocialingPost(req, userID)
	if err != nil {
		return nil, err
	}
	return s.Socialing.Create(ctx, post, userID)
}

// LoadAll refreshes every category, returning the first failure after trying all of them.
func (s *Service) LoadAll(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	_, err := s.Club.Load(ctx)
	keep(err)
	_, err = s.Challenge.Load(ctx)
	keep(err)
	_, err = s.Lounge.Load(ctx)
	keep(err)
	_, err = s.Socialing.Load(ctx)
	keep(err)

	return firstErr
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
