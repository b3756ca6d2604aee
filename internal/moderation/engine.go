// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/internal/post"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

const auditSource = "moderation"

// Posts is the owner-agnostic view of posts that moderation needs.
// *post.Store implements it.
type Posts interface {
	Lookup(ctx context.Context, id ulid.ULID) (*post.Post, error)
	ApplyData(ctx context.Context, id ulid.ULID, data string) error
	Deactivate(ctx context.Context, id ulid.ULID) error
}

// Config holds dependencies shared by Engine and Processor.
type Config struct {
	Requests Repository
	Posts    Posts
	// Transactor is required by Processor only.
	Transactor Transactor
	Sink       *audit.Sink
	Logger     *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Engine files moderation requests. Admins never change posts directly; they
// file a request that a super-admin later decides.
type Engine struct {
	requests Repository
	posts    Posts
	actions  *audit.Logger
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		requests: cfg.Requests,
		posts:    cfg.Posts,
		actions:  cfg.Sink.For(audit.CategoryAction, auditSource),
		logger:   cfg.Logger,
		now:      cfg.Clock,
	}
}

// RequestUpdate files a request to replace a post's text with newData.
func (e *Engine) RequestUpdate(ctx context.Context, admin access.Subject, postID ulid.ULID, newData string) (*Request, error) {
	if err := admin.Require(access.RoleAdmin, "request update"); err != nil {
		e.denied(ctx, admin, "request update", postID)
		return nil, err
	}
	if err := post.ValidateData(newData); err != nil {
		return nil, err
	}
	return e.file(ctx, admin, KindUpdate, postID, &newData)
}

// RequestDelete files a request to soft-delete a post.
func (e *Engine) RequestDelete(ctx context.Context, admin access.Subject, postID ulid.ULID) (*Request, error) {
	if err := admin.Require(access.RoleAdmin, "request delete"); err != nil {
		e.denied(ctx, admin, "request delete", postID)
		return nil, err
	}
	return e.file(ctx, admin, KindDelete, postID, nil)
}

func (e *Engine) file(ctx context.Context, admin access.Subject, kind Kind, postID ulid.ULID, proposed *string) (*Request, error) {
	p, err := e.posts.Lookup(ctx, postID)
	if err != nil {
		return nil, e.fail("look up post", err)
	}

	r := &Request{
		ID:           ulid.Make(),
		Kind:         kind,
		PostID:       p.ID,
		RequesterID:  admin.UserID,
		ProposedData: proposed,
		Status:       StatusPending,
		CreatedAt:    e.now().UTC().Truncate(time.Microsecond),
	}
	if kind == KindUpdate {
		snapshot := p.Data
		r.OldData = &snapshot
	}

	if err := e.requests.Create(ctx, r); err != nil {
		e.actions.Error(ctx, "moderation request failed",
			"requester_id", admin.UserID.String(), "kind", kind.String(), "post_id", postID.String())
		return nil, e.fail("create moderation request", err)
	}

	requestsCounter.WithLabelValues(kind.String()).Inc()
	e.actions.Info(ctx, "moderation request created",
		"request_id", r.ID.String(),
		"requester_id", admin.UserID.String(),
		"kind", kind.String(),
		"post_id", postID.String(),
	)
	return r.clone(), nil
}

// Get returns one request. Admins and super-admins may view requests.
func (e *Engine) Get(ctx context.Context, viewer access.Subject, id ulid.ULID) (*Request, error) {
	if !viewer.IsAdmin() && !viewer.IsSuperAdmin() {
		return nil, errutil.PermissionDenied("view moderation request")
	}
	r, err := e.requests.Get(ctx, id)
	if err != nil {
		return nil, e.fail("get moderation request", err)
	}
	return r, nil
}

// ListPending returns the requests awaiting a decision, oldest first.
func (e *Engine) ListPending(ctx context.Context, superAdmin access.Subject) ([]*Request, error) {
	if err := superAdmin.Require(access.RoleSuperAdmin, "list pending requests"); err != nil {
		return nil, err
	}
	rs, err := e.requests.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, e.fail("list pending requests", err)
	}
	return rs, nil
}

func (e *Engine) denied(ctx context.Context, s access.Subject, operation string, postID ulid.ULID) {
	e.actions.Warn(ctx, "moderation request denied",
		"user_id", s.UserID.String(), "role", s.Role.String(), "operation", operation, "post_id", postID.String())
}

func (e *Engine) fail(operation string, err error) error {
	if errutil.IsExpected(err) {
		return err
	}
	return errutil.Internal(e.logger, operation, err)
}
