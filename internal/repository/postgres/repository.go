package postgres

import (
	"context"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Posts is the row API of a single post table.
type Posts[T model.Post] interface {
	FindAll(ctx context.Context) ([]T, error)
	// FindByID returns pgx.ErrNoRows when no row has the id.
	FindByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, post T) (*T, error)
	Update(ctx context.Context, id int64, patch model.Patch) (*T, error)
	// Delete reports how many rows were removed. Zero rows is not an error.
	Delete(ctx context.Context, id int64) (int64, error)
}

type UserInfo interface {
	FindPosts(ctx context.Context, userID uuid.UUID) (model.PostIndex, error)
	UpdatePosts(ctx context.Context, userID uuid.UUID, posts model.PostIndex) error
}

type PostgresRepository struct {
	Club      Posts[model.ClubPost]
	Challenge Posts[model.ChallengePost]
	Lounge    Posts[model.LoungePost]
	Socialing Posts[model.SocialingPost]
	UserInfo
}

func New(db DBTX, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Club:      newPostRepo[model.ClubPost](db, logger),
		Challenge: newPostRepo[model.ChallengePost](db, logger),
		Lounge:    newPostRepo[model.LoungePost](db, logger),
		Socialing: newPostRepo[model.SocialingPost](db, logger),
		UserInfo:  newUserInfoRepo(db),
	}
}
