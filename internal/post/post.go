// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package post stores short text posts owned by users.
//
// Every owner-facing operation is scoped to the caller: a post that belongs to
// someone else, does not exist, or has been soft-deleted is reported as
// NotFound in all three cases. Soft-deleted rows stay in storage with Active
// set to false and are never visible again through this package.
package post

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// MaxDataLength is the maximum post length in code points.
const MaxDataLength = 280

// Post is a short text post.
type Post struct {
	ID         ulid.ULID
	OwnerID    ulid.ULID
	Data       string
	Active     bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ValidateData checks post text: non-blank, valid UTF-8 without NUL, at most
// MaxDataLength code points.
func ValidateData(data string) error {
	if strings.TrimSpace(data) == "" {
		return errutil.InvalidArgument("data", "cannot be empty")
	}
	if !utf8.ValidString(data) {
		return errutil.InvalidArgument("data", "must be valid UTF-8")
	}
	if strings.ContainsRune(data, 0) {
		return errutil.InvalidArgument("data", "must not contain NUL characters")
	}
	if utf8.RuneCountInString(data) > MaxDataLength {
		return errutil.InvalidArgument("data", "must be at most 280 characters")
	}
	return nil
}

// Repository manages post persistence. Lookups by id only ever return active
// posts. A nil owner on a mutation means the write is not owner-scoped.
// Each mutation is a single conditional write; when no active row matches it
// returns NotFound.
type Repository interface {
	Create(ctx context.Context, p *Post) error

	// GetOwned returns the active post id owned by owner.
	GetOwned(ctx context.Context, owner, id ulid.ULID) (*Post, error)

	// Get returns the active post id regardless of owner.
	Get(ctx context.Context, id ulid.ULID) (*Post, error)

	// ListByOwner returns owner's active posts, newest first.
	ListByOwner(ctx context.Context, owner ulid.ULID) ([]*Post, error)

	UpdateData(ctx context.Context, id ulid.ULID, owner *ulid.ULID, data string, at time.Time) error

	Deactivate(ctx context.Context, id ulid.ULID, owner *ulid.ULID, at time.Time) error
}
