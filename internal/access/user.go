// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package access

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// usernameRegex matches usernames that start with a letter and contain only
// letters, numbers, and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// User is a local account. Authentication happens elsewhere; tweetgov only
// needs the id and role to build a Subject.
type User struct {
	ID        ulid.ULID
	Username  string
	Role      Role
	CreatedAt time.Time
}

// Subject returns the subject acting as this user.
func (u *User) Subject() Subject {
	return Subject{UserID: u.ID, Role: u.Role}
}

// NewUser validates its input and returns a user with a fresh id.
func NewUser(username string, role Role, now time.Time) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, errutil.InvalidArgument("role", "unknown role")
	}
	return &User{
		ID:        ulid.Make(),
		Username:  username,
		Role:      role,
		CreatedAt: now.UTC(),
	}, nil
}

// ValidateUsername checks length and character rules.
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return errutil.InvalidArgument("username", "cannot be empty")
	case len(username) < MinUsernameLength:
		return errutil.InvalidArgument("username", "must be at least 3 characters")
	case len(username) > MaxUsernameLength:
		return errutil.InvalidArgument("username", "must be at most 30 characters")
	case !usernameRegex.MatchString(username):
		return errutil.InvalidArgument("username",
			"must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. A taken username fails with InvalidArgument.
	Create(ctx context.Context, user *User) error

	// Get retrieves a user by ID.
	Get(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// Resolver turns a user id into the Subject the domain services act for.
type Resolver struct {
	users UserRepository
}

// NewResolver creates a Resolver over users.
func NewResolver(users UserRepository) *Resolver {
	return &Resolver{users: users}
}

// Resolve looks up the user and returns its subject.
func (r *Resolver) Resolve(ctx context.Context, id ulid.ULID) (Subject, error) {
	u, err := r.users.Get(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	return u.Subject(), nil
}
