// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package postgres implements post.Repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/post"
	"github.com/tweetgov/tweetgov/internal/store"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

const postColumns = `id, owner_id, data, active, created_at, modified_at`

// PostRepository implements post.Repository using PostgreSQL. Every method
// runs in the caller's transaction when the context carries one.
type PostRepository struct {
	pool store.Querier
}

// Compile-time check.
var _ post.Repository = (*PostRepository)(nil)

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool store.Querier) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create inserts p. An unknown owner is reported as NotFound.
func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	_, err := store.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID.String(), p.OwnerID.String(), p.Data, p.Active, p.CreatedAt, p.ModifiedAt)
	if store.IsForeignKeyViolation(err) {
		return errutil.NotFound("user", p.OwnerID.String())
	}
	if err != nil {
		return oops.With("operation", "create post").With("post_id", p.ID.String()).Wrap(err)
	}
	return nil
}

// GetOwned returns the active post id owned by owner.
func (r *PostRepository) GetOwned(ctx context.Context, owner, id ulid.ULID) (*post.Post, error) {
	row := store.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE id = $1 AND owner_id = $2 AND active
	`, id.String(), owner.String())
	return r.one(row, "get owned post", id)
}

// Get returns the active post id regardless of owner.
func (r *PostRepository) Get(ctx context.Context, id ulid.ULID) (*post.Post, error) {
	row := store.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE id = $1 AND active
	`, id.String())
	return r.one(row, "get post", id)
}

func (r *PostRepository) one(row pgx.Row, operation string, id ulid.ULID) (*post.Post, error) {
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errutil.NotFound("post", id.String())
	}
	if err != nil {
		return nil, oops.With("operation", operation).With("post_id", id.String()).Wrap(err)
	}
	return p, nil
}

// ListByOwner returns owner's active posts, newest first.
func (r *PostRepository) ListByOwner(ctx context.Context, owner ulid.ULID) ([]*post.Post, error) {
	rows, err := store.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE owner_id = $1 AND active
		ORDER BY created_at DESC, id DESC
	`, owner.String())
	if err != nil {
		return nil, oops.With("operation", "list posts").With("owner_id", owner.String()).Wrap(err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, oops.With("operation", "scan post").Wrap(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate posts").Wrap(err)
	}
	return posts, nil
}

// UpdateData replaces the text of the matching active post.
func (r *PostRepository) UpdateData(ctx context.Context, id ulid.ULID, owner *ulid.ULID, data string, at time.Time) error {
	tag, err := store.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE posts SET data = $1, modified_at = GREATEST(modified_at, $2)
		WHERE id = $3 AND active AND ($4::text IS NULL OR owner_id = $4)
	`, data, at, id.String(), store.NullableULID(owner))
	if err != nil {
		return oops.With("operation", "update post data").With("post_id", id.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return errutil.NotFound("post", id.String())
	}
	return nil
}

// Deactivate clears active on the matching active post.
func (r *PostRepository) Deactivate(ctx context.Context, id ulid.ULID, owner *ulid.ULID, at time.Time) error {
	tag, err := store.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE posts SET active = FALSE, modified_at = GREATEST(modified_at, $1)
		WHERE id = $2 AND active AND ($3::text IS NULL OR owner_id = $3)
	`, at, id.String(), store.NullableULID(owner))
	if err != nil {
		return oops.With("operation", "deactivate post").With("post_id", id.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return errutil.NotFound("post", id.String())
	}
	return nil
}

func scanPost(row pgx.Row) (*post.Post, error) {
	var (
		idStr, ownerStr string
		p               post.Post
	)
	if err := row.Scan(&idStr, &ownerStr, &p.Data, &p.Active, &p.CreatedAt, &p.ModifiedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	var err error
	if p.ID, err = store.ParseULID(idStr, "id"); err != nil {
		return nil, err
	}
	if p.OwnerID, err = store.ParseULID(ownerStr, "owner_id"); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.ModifiedAt = p.ModifiedAt.UTC()
	return &p, nil
}
