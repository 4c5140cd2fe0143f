package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/cache"
	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ledgerOptions struct {
	// optimistic updates mutate the cache before the remote write and roll back on failure.
	optimistic      bool
	newestFirst     bool
	unindexOnDelete bool
	remoteTimeout   time.Duration
}

// Ledger keeps one post table, its local cache and the authors' post index in step.
type Ledger[T model.Post] struct {
	logger   *zap.Logger
	posts    postgres.Posts[T]
	index    *indexWriter
	cache    *cache.List[T]
	category model.Category
	opts     ledgerOptions
}

func newLedger[T model.Post](logger *zap.Logger, posts postgres.Posts[T], index *indexWriter, opts ledgerOptions) *Ledger[T] {
	return &Ledger[T]{
		logger:   logger,
		posts:    posts,
		index:    index,
		cache:    cache.NewList[T](opts.newestFirst),
		category: model.KindOf[T](),
		opts:     opts,
	}
}

// Cached returns a copy of the local rows without touching the store.
func (l *Ledger[T]) Cached() []T {
	return l.cache.Snapshot()
}

func (l *Ledger[T]) Subscribe(buffer int) (<-chan cache.Event, func()) {
	return l.cache.Subscribe(buffer)
}

// Load replaces the cache with every row of the table. On failure the cache is left as it was.
func (l *Ledger[T]) Load(ctx context.Context) ([]T, error) {
	ctx, cancel := withTimeout(ctx, l.opts.remoteTimeout)
	defer cancel()

	posts, err := l.posts.FindAll(ctx)
	if err != nil {
		l.logger.Sugar().Errorf("failed to load %s: %s", l.category, err.Error())
		return nil, ErrRemoteRead
	}

	l.cache.Replace(posts)
	l.logger.Sugar().Debugf("loaded %d %s posts", l.cache.Len(), l.cache.Category())

	return posts, nil
}

// Get returns the cached row with the given id, reading the table only on a cache miss.
func (l *Ledger[T]) Get(ctx context.Context, id int64) (*T, error) {
	if post, ok := l.cache.Get(id); ok {
		return &post, nil
	}

	ctx, cancel := withTimeout(ctx, l.opts.remoteTimeout)
	defer cancel()

	post, err := l.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		l.logger.Sugar().Errorf("failed to get %s post(%d): %s", l.category, id, err.Error())
		return nil, ErrRemoteRead
	}

	return post, nil
}

// Create inserts post with userID as its only participant and records it in the user's index.
// When the index step fails the created post is still returned, with an error wrapping
// ErrConsistencyDrift, and a repair task is queued.
func (l *Ledger[T]) Create(ctx context.Context, post T, userID uuid.UUID) (*T, error) {
	post = model.Seed(post, userID)

	remoteCtx, cancel := withTimeout(ctx, l.opts.remoteTimeout)
	created, err := l.posts.Create(remoteCtx, post)
	cancel()
	if err != nil {
		l.logger.Sugar().Errorf("failed to create user(%s) %s post: %s", userID.String(), l.category, err.Error())
		return nil, ErrRemoteWrite
	}

	l.cache.Insert(*created)

	entry := model.IndexEntry{ID: (*created).PostID(), Type: l.category}
	if err := l.index.Append(ctx, userID, entry); err != nil {
		return created, err
	}

	return created, nil
}

// Update applies patch to the row with the given id and returns the stored row.
// Only the creator of the post may update it.
func (l *Ledger[T]) Update(ctx context.Context, id int64, userID uuid.UUID, patch model.Patch) (*T, error) {
	normalized, err := normalizePatch[T](patch)
	if err != nil {
		return nil, err
	}

	if participants, ok := normalized["participants"].([]uuid.UUID); ok {
		if len(participants) == 0 || participants[0] != userID {
			return nil, fmt.Errorf("%w: participants must start with the creator", ErrInvalidInput)
		}
	}

	if _, err := l.authorize(ctx, id, userID); err != nil {
		return nil, err
	}

	if !l.opts.optimistic {
		return l.update(ctx, id, normalized)
	}

	snapshot, cached, err := l.cache.Mutate(id, func(post *T) error {
		return applyPatch(post, normalized)
	})
	if err != nil {
		l.logger.Sugar().Errorf("failed to apply patch to cached %s post(%d): %s", l.category, id, err.Error())
		return nil, ErrInvalidInput
	}

	updated, err := l.update(ctx, id, normalized)
	if err != nil {
		if cached {
			l.cache.Put(snapshot)
		}
		return nil, err
	}

	if cached {
		l.cache.Put(*updated)
	}

	return updated, nil
}

func (l *Ledger[T]) update(ctx context.Context, id int64, patch model.Patch) (*T, error) {
	ctx, cancel := withTimeout(ctx, l.opts.remoteTimeout)
	defer cancel()

	updated, err := l.posts.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrPostNotFound
		case errors.Is(err, postgres.ErrFieldsNotAllowedToUpdate):
			return nil, ErrFieldNotAllowed
		case errors.Is(err, postgres.ErrNothingToUpdate):
			return nil, ErrInvalidInput
		}
		l.logger.Sugar().Errorf("failed to update %s post(%d): %s", l.category, id, err.Error())
		return nil, ErrRemoteWrite
	}

	return updated, nil
}

// Delete removes the row and then its entry from the user's index.
// Only the creator may delete a post. A row that is already gone still has its entry
// removed from the caller's index. If the row delete fails the index is not touched.
func (l *Ledger[T]) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	if _, err := l.authorize(ctx, id, userID); err != nil && !errors.Is(err, ErrPostNotFound) {
		return err
	}

	remoteCtx, cancel := withTimeout(ctx, l.opts.remoteTimeout)
	_, err := l.posts.Delete(remoteCtx, id)
	cancel()
	if err != nil {
		l.logger.Sugar().Errorf("failed to delete %s post(%d): %s", l.category, id, err.Error())
		return ErrRemoteWrite
	}

	l.cache.Remove(id)

	entry := model.IndexEntry{ID: id, Type: l.category}
	if !l.opts.unindexOnDelete {
		// Known asymmetry: create indexes lounge posts, delete leaves the entry behind.
		l.logger.Warn("post deleted without removing its index entry",
			zap.String("category", string(l.category)),
			zap.Int64("post_id", id),
			zap.String("user_id", userID.String()),
		)
		return nil
	}

	return l.index.Remove(ctx, userID, entry)
}

// authorize reads the row and checks that userID created it.
func (l *Ledger[T]) authorize(ctx context.Context, id int64, userID uuid.UUID) (*T, error) {
	ctx, cancel := withTimeout(ctx, l.opts.remoteTimeout)
	defer cancel()

	post, err := l.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		l.logger.Sugar().Errorf("failed to get %s post(%d): %s", l.category, id, err.Error())
		return nil, ErrRemoteRead
	}

	if (*post).Owner() != userID {
		l.logger.Sugar().Warnf("user(%s) is not the creator of %s post(%d)", userID.String(), l.category, id)
		return nil, ErrForbidden
	}

	return post, nil
}

// normalizePatch checks patch keys against the writable columns of T and converts every
// value to the Go type of its column by decoding it through T.
func normalizePatch[T model.Post](patch model.Patch) (model.Patch, error) {
	if len(patch) == 0 {
		return nil, ErrInvalidInput
	}

	var zero T
	columns := zero.Record()
	plain := make(map[string]any, len(patch))
	for field, value := range patch {
		if _, ok := columns[field]; !ok {
			return nil, ErrFieldNotAllowed
		}

		if nestedColumns[field] {
			encoded, err := encodeNestedValue(value)
			if err != nil {
				return nil, err
			}
			value = encoded
		}
		plain[field] = value
	}

	var typed T
	if err := applyPatch(&typed, plain); err != nil {
		return nil, ErrInvalidInput
	}

	record := typed.Record()
	out := make(model.Patch, len(plain))
	for field := range plain {
		out[field] = record[field]
	}

	return out, nil
}

func applyPatch[T model.Post](post *T, patch map[string]any) error {
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	return json.Unmarshal(patchJSON, post)
}
