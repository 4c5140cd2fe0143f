package postgres

import (
	"context"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userInfoRepo struct {
	db DBTX
}

func newUserInfoRepo(db DBTX) UserInfo {
	return &userInfoRepo{
		db: db,
	}
}

func (r *userInfoRepo) FindPosts(ctx context.Context, userID uuid.UUID) (model.PostIndex, error) {
	var posts []string
	if err := r.db.QueryRow(
		ctx,
		"SELECT COALESCE(u.posts, '{}') FROM userinfo u WHERE u.id = $1",
		userID,
	).Scan(&posts); err != nil {
		return nil, err
	}

	return model.PostIndex(posts), nil
}

func (r *userInfoRepo) UpdatePosts(ctx context.Context, userID uuid.UUID, posts model.PostIndex) error {
	if posts == nil {
		posts = model.PostIndex{}
	}

	tag, err := r.db.Exec(ctx, "UPDATE userinfo SET posts = $1 WHERE id = $2", []string(posts), userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
