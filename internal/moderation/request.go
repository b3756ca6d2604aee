// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package moderation

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Kind is the change a request proposes. Values are stored as-is.
type Kind int

// Request kinds.
const (
	KindUpdate Kind = 1
	KindDelete Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Status is a request's lifecycle state.
type Status string

// Request states. Pending is the only non-terminal state.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decision is a super-admin's verdict on a pending request.
type Decision string

// Decisions.
const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision accepts exactly "approve" or "reject".
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	if d != DecisionApprove && d != DecisionReject {
		return "", errutil.InvalidArgument("decision", "must be approve or reject")
	}
	return d, nil
}

func (d Decision) status() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Request is an admin's proposed change to a post.
//
// OldData is the post text when the request was filed and is never compared
// with the live post again. Delete requests carry neither OldData nor
// ProposedData. ApproverID and DecidedAt are set together, once.
type Request struct {
	ID           ulid.ULID
	Kind         Kind
	PostID       ulid.ULID
	RequesterID  ulid.ULID
	ApproverID   *ulid.ULID
	OldData      *string
	ProposedData *string
	Status       Status
	CreatedAt    time.Time
	DecidedAt    *time.Time
}

// Decide moves a pending request to its terminal state. A request that has
// already been decided is left untouched and InvalidState is returned.
func (r *Request) Decide(approver ulid.ULID, d Decision, at time.Time) error {
	if r.Status != StatusPending {
		return errutil.InvalidState("moderation request %s is already %s", r.ID, r.Status)
	}
	if _, err := ParseDecision(string(d)); err != nil {
		return err
	}
	decidedAt := at
	r.Status = d.status()
	r.ApproverID = &approver
	r.DecidedAt = &decidedAt
	return nil
}

// clone returns a deep copy so stored requests cannot be mutated through
// returned pointers.
func (r *Request) clone() *Request {
	c := *r
	if r.ApproverID != nil {
		id := *r.ApproverID
		c.ApproverID = &id
	}
	if r.OldData != nil {
		s := *r.OldData
		c.OldData = &s
	}
	if r.ProposedData != nil {
		s := *r.ProposedData
		c.ProposedData = &s
	}
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}

// Repository manages request persistence.
type Repository interface {
	// Create stores a new pending request. A missing post is NotFound.
	Create(ctx context.Context, r *Request) error

	Get(ctx context.Context, id ulid.ULID) (*Request, error)

	// GetForUpdate is Get that also locks the request until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id ulid.ULID) (*Request, error)

	// Save persists a decision. It only succeeds while the stored request is
	// still pending; otherwise it returns InvalidState.
	Save(ctx context.Context, r *Request) error

	// ListByStatus returns requests in status, oldest first.
	ListByStatus(ctx context.Context, status Status) ([]*Request, error)
}

// Transactor runs fn so that every repository call made with the context it
// receives commits or rolls back together.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
