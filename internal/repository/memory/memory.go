// Package memory is a process-local stand-in for the post tables and userinfo,
// used for local runs and tests. It follows the postgres contracts, including
// returning pgx.ErrNoRows for missing rows.
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func New(users *UserInfo) *postgres.PostgresRepository {
	return &postgres.PostgresRepository{
		Club:      NewPosts[model.ClubPost](),
		Challenge: NewPosts[model.ChallengePost](),
		Lounge:    NewPosts[model.LoungePost](),
		Socialing: NewPosts[model.SocialingPost](),
		UserInfo:  users,
	}
}

type Posts[T model.Post] struct {
	mu     sync.Mutex
	rows   []T
	nextID int64
	Now    func() time.Time
}

func NewPosts[T model.Post]() *Posts[T] {
	return &Posts[T]{
		nextID: 1,
		Now:    time.Now,
	}
}

func (p *Posts[T]) FindAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := append([]T{}, p.rows...)
	if model.KindOf[T]() == model.CategoryLounge {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Created().After(out[j].Created())
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostID() < out[j].PostID()
		})
	}
	return out, nil
}

func (p *Posts[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, row := range p.rows {
		if row.PostID() == id {
			found := row
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (p *Posts[T]) Create(ctx context.Context, post T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	created := stamp(post, p.nextID, p.Now().UTC())
	p.nextID++
	p.rows = append(p.rows, created)

	return &created, nil
}

func (p *Posts[T]) Update(ctx context.Context, id int64, patch model.Patch) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, postgres.ErrNothingToUpdate
	}

	var zero T
	columns := zero.Record()
	for field := range patch {
		if _, ok := columns[field]; !ok {
			return nil, postgres.ErrFieldsNotAllowedToUpdate
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i, row := range p.rows {
		if row.PostID() != id {
			continue
		}

		patchJSON, err := json.Marshal(patch)
		if err != nil {
			return nil, err
		}
		updated := row
		if err := json.Unmarshal(patchJSON, &updated); err != nil {
			return nil, err
		}
		updated = stamp(updated, row.PostID(), row.Created())

		p.rows[i] = updated
		return &updated, nil
	}

	return nil, pgx.ErrNoRows
}

func (p *Posts[T]) Delete(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	before := len(p.rows)
	p.rows = slices.DeleteFunc(p.rows, func(row T) bool {
		return row.PostID() == id
	})
	return int64(before - len(p.rows)), nil
}

// stamp sets the server-assigned columns.
func stamp[T model.Post](post T, id int64, at time.Time) T {
	switch v := any(&post).(type) {
	case *model.ClubPost:
		v.ID, v.CreatedAt = id, at
	case *model.ChallengePost:
		v.ID, v.CreatedAt = id, at
	case *model.LoungePost:
		v.ID, v.CreatedAt = id, at
	case *model.SocialingPost:
		v.ID, v.CreatedAt = id, at
	}
	return post
}

type UserInfo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]model.PostIndex
	// AutoRegister treats unknown users as having an empty index instead of not existing.
	AutoRegister bool
}

func NewUserInfo() *UserInfo {
	return &UserInfo{
		posts: make(map[uuid.UUID]model.PostIndex),
	}
}

// AddUser registers a user with the given raw index.
func (u *UserInfo) AddUser(userID uuid.UUID, posts ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.posts[userID] = append(model.PostIndex{}, posts...)
}

func (u *UserInfo) FindPosts(ctx context.Context, userID uuid.UUID) (model.PostIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	posts, ok := u.posts[userID]
	if !ok {
		if u.AutoRegister {
			return model.PostIndex{}, nil
		}
		return nil, pgx.ErrNoRows
	}
	return slices.Clone(posts), nil
}

func (u *UserInfo) UpdatePosts(ctx context.Context, userID uuid.UUID, posts model.PostIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.posts[userID]; !ok && !u.AutoRegister {
		return pgx.ErrNoRows
	}
	u.posts[userID] = slices.Clone(posts)
	return nil
}
