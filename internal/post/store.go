// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package post

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

const auditSource = "post"

// StoreConfig holds dependencies for Store.
type StoreConfig struct {
	Repo   Repository
	Sink   *audit.Sink
	Logger *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Store is the owner-scoped post service. Reads emit access entries and
// mutations emit action entries, after the repository call returns.
type Store struct {
	repo    Repository
	access  *audit.Logger
	actions *audit.Logger
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a Store.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		repo:    cfg.Repo,
		access:  cfg.Sink.For(audit.CategoryAccess, auditSource),
		actions: cfg.Sink.For(audit.CategoryAction, auditSource),
		logger:  cfg.Logger,
		now:     cfg.Clock,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// timestamp returns the clock in UTC at the precision Postgres keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// fail passes expected kinds through and hides everything else.
func (s *Store) fail(operation string, err error) error {
	if errutil.IsExpected(err) {
		return err
	}
	return errutil.Internal(s.logger, operation, err)
}

// Create stores a new active post owned by owner.
func (s *Store) Create(ctx context.Context, owner access.Subject, data string) (*Post, error) {
	if err := ValidateData(data); err != nil {
		return nil, err
	}

	now := s.timestamp()
	p := &Post{
		ID:         ulid.Make(),
		OwnerID:    owner.UserID,
		Data:       data,
		Active:     true,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.actions.Error(ctx, "post create failed", "user_id", owner.UserID.String())
		return nil, s.fail("create post", err)
	}

	s.actions.Info(ctx, "post created", "user_id", owner.UserID.String(), "post_id", p.ID.String())
	return p, nil
}

// Get returns one of owner's active posts.
func (s *Store) Get(ctx context.Context, owner access.Subject, id ulid.ULID) (*Post, error) {
	p, err := s.repo.GetOwned(ctx, owner.UserID, id)
	if err != nil {
		return nil, s.fail("get post", err)
	}
	s.access.Info(ctx, "post viewed", "user_id", owner.UserID.String(), "post_id", id.String())
	return p, nil
}

// List returns owner's active posts, newest first.
func (s *Store) List(ctx context.Context, owner access.Subject) ([]*Post, error) {
	posts, err := s.repo.ListByOwner(ctx, owner.UserID)
	if err != nil {
		return nil, s.fail("list posts", err)
	}
	s.access.Info(ctx, "posts listed", "user_id", owner.UserID.String(), "count", len(posts))
	return posts, nil
}

// UpdateData replaces the text of one of owner's active posts.
func (s *Store) UpdateData(ctx context.Context, owner access.Subject, id ulid.ULID, data string) error {
	if err := ValidateData(data); err != nil {
		return err
	}
	ownerID := owner.UserID
	if err := s.repo.UpdateData(ctx, id, &ownerID, data, s.timestamp()); err != nil {
		s.actions.Warn(ctx, "post update failed", "user_id", ownerID.String(), "post_id", id.String(), "reason", errutil.Kind(err))
		return s.fail("update post", err)
	}
	s.actions.Info(ctx, "post updated", "user_id", ownerID.String(), "post_id", id.String())
	return nil
}

// SoftDelete deactivates one of owner's active posts. Deleting an already
// deleted post fails with NotFound.
func (s *Store) SoftDelete(ctx context.Context, owner access.Subject, id ulid.ULID) error {
	ownerID := owner.UserID
	if err := s.repo.Deactivate(ctx, id, &ownerID, s.timestamp()); err != nil {
		s.actions.Warn(ctx, "post delete failed", "user_id", ownerID.String(), "post_id", id.String(), "reason", errutil.Kind(err))
		return s.fail("delete post", err)
	}
	s.actions.Info(ctx, "post deleted", "user_id", ownerID.String(), "post_id", id.String())
	return nil
}

// Lookup returns an active post regardless of owner. It is the moderation
// path's view of posts and emits no audit entry.
func (s *Store) Lookup(ctx context.Context, id ulid.ULID) (*Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.fail("lookup post", err)
	}
	return p, nil
}

// ApplyData replaces the text of an active post regardless of owner.
func (s *Store) ApplyData(ctx context.Context, id ulid.ULID, data string) error {
	if err := ValidateData(data); err != nil {
		return err
	}
	if err := s.repo.UpdateData(ctx, id, nil, data, s.timestamp()); err != nil {
		return s.fail("apply post data", err)
	}
	return nil
}

// Deactivate soft-deletes an active post regardless of owner.
func (s *Store) Deactivate(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Deactivate(ctx, id, nil, s.timestamp()); err != nil {
		return s.fail("deactivate post", err)
	}
	return nil
}
