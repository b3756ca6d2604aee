// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package postgres implements access.UserRepository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/internal/store"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// UserRepository implements access.UserRepository using PostgreSQL.
type UserRepository struct {
	pool store.Querier
}

// Compile-time check.
var _ access.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool store.Querier) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new user.
func (r *UserRepository) Create(ctx context.Context, user *access.User) error {
	_, err := store.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, username, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID.String(), user.Username, int16(user.Role), user.CreatedAt)
	if store.IsUniqueViolation(err) {
		return errutil.InvalidArgument("username", "already taken")
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(ctx context.Context, id ulid.ULID) (*access.User, error) {
	row := store.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, username, role, created_at FROM users WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errutil.NotFound("user", id.String())
	}
	if err != nil {
		return nil, oops.With("operation", "get user").With("id", id.String()).Wrap(err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*access.User, error) {
	row := store.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, username, role, created_at FROM users WHERE LOWER(username) = LOWER($1)
	`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errutil.NotFound("user", username)
	}
	if err != nil {
		return nil, oops.With("operation", "get user by username").With("username", username).Wrap(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*access.User, error) {
	var (
		idStr     string
		username  string
		role      int16
		createdAt time.Time
	)
	if err := row.Scan(&idStr, &username, &role, &createdAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	id, err := store.ParseULID(idStr, "id")
	if err != nil {
		return nil, err
	}
	return &access.User{
		ID:        id,
		Username:  username,
		Role:      access.Role(role),
		CreatedAt: createdAt.UTC(),
	}, nil
}
