// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Processor decides pending requests.
type Processor struct {
	requests   Repository
	posts      Posts
	transactor Transactor
	actions    *audit.Logger
	governance *audit.Logger
	logger     *slog.Logger
	now        func() time.Time
}

// NewProcessor creates a Processor.
func NewProcessor(cfg Config) *Processor {
	cfg = cfg.withDefaults()
	return &Processor{
		requests:   cfg.Requests,
		posts:      cfg.Posts,
		transactor: cfg.Transactor,
		actions:    cfg.Sink.For(audit.CategoryAction, auditSource),
		governance: cfg.Sink.For(audit.CategoryAudit, auditSource),
		logger:     cfg.Logger,
		now:        cfg.Clock,
	}
}

// postStepError marks a failure to apply an approved change to its post.
type postStepError struct {
	err error
}

func (e *postStepError) Error() string { return e.err.Error() }
func (e *postStepError) Unwrap() error { return e.err }

// Decide approves or rejects a pending request.
//
// The request is locked, its post changed (on approve) and its terminal state
// saved in one transaction. If the post can no longer be changed, nothing is
// saved, the request stays pending and InternalError is returned. One audit
// entry is emitted after the transaction commits.
func (p *Processor) Decide(ctx context.Context, superAdmin access.Subject, requestID ulid.ULID, decision Decision) (*Request, error) {
	if err := superAdmin.Require(access.RoleSuperAdmin, "decide moderation request"); err != nil {
		p.actions.Warn(ctx, "moderation decision denied",
			"user_id", superAdmin.UserID.String(), "role", superAdmin.Role.String(), "request_id", requestID.String())
		return nil, err
	}
	if _, err := ParseDecision(string(decision)); err != nil {
		return nil, err
	}

	var decided *Request
	err := p.transactor.InTransaction(ctx, func(ctx context.Context) error {
		r, err := p.requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := r.Decide(superAdmin.UserID, decision, p.now().UTC().Truncate(time.Microsecond)); err != nil {
			return err
		}
		if decision == DecisionApprove {
			if err := p.apply(ctx, r); err != nil {
				return &postStepError{err: err}
			}
		}
		if err := p.requests.Save(ctx, r); err != nil {
			return err
		}
		decided = r
		return nil
	})
	if err != nil {
		err = p.fail(err)
		decisionsCounter.WithLabelValues("failed").Inc()
		p.actions.Error(ctx, "moderation decision failed",
			"request_id", requestID.String(),
			"approver_id", superAdmin.UserID.String(),
			"decision", string(decision),
			"reason", errutil.Kind(err),
		)
		return nil, err
	}

	decisionsCounter.WithLabelValues(string(decided.Status)).Inc()
	p.governance.Info(ctx, describe(decided),
		"request_id", decided.ID.String(),
		"requester_id", decided.RequesterID.String(),
		"approver_id", superAdmin.UserID.String(),
		"decision", string(decision),
		"kind", decided.Kind.String(),
		"post_id", decided.PostID.String(),
	)
	return decided.clone(), nil
}

func (p *Processor) apply(ctx context.Context, r *Request) error {
	switch r.Kind {
	case KindUpdate:
		if r.ProposedData == nil {
			return oops.With("request_id", r.ID.String()).Errorf("update request has no proposed data")
		}
		return p.posts.ApplyData(ctx, r.PostID, *r.ProposedData)
	case KindDelete:
		return p.posts.Deactivate(ctx, r.PostID)
	default:
		return oops.With("request_id", r.ID.String()).Errorf("unknown request kind %d", r.Kind)
	}
}

// fail maps a decision failure to the caller-facing kind. Any failure of
// the post step is internal, even NotFound: the request itself was valid.
func (p *Processor) fail(err error) error {
	var stepErr *postStepError
	if errors.As(err, &stepErr) {
		return errutil.Internal(p.logger, "apply moderation decision", stepErr.err)
	}
	if errutil.IsExpected(err) {
		return err
	}
	return errutil.Internal(p.logger, "decide moderation request", err)
}

func describe(r *Request) string {
	return fmt.Sprintf("moderation request %s (%s post %s) filed by %s was %s by %s",
		r.ID, r.Kind, r.PostID, r.RequesterID, r.Status, *r.ApproverID)
}
