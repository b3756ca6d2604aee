// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package access

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Subject is an authenticated caller as seen by the domain services.
type Subject struct {
	UserID ulid.ULID
	Role   Role
}

// IsAdmin reports whether the subject holds exactly the admin role.
func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

// IsSuperAdmin reports whether the subject holds exactly the super-admin role.
func (s Subject) IsSuperAdmin() bool { return s.Role == RoleSuperAdmin }

// Require returns PermissionDenied unless the subject holds role.
func (s Subject) Require(role Role, operation string) error {
	if s.Role != role {
		return errutil.PermissionDenied(operation)
	}
	return nil
}

type subjectKey struct{}

// WithSubject returns a context carrying the calling subject.
func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext returns the subject stored by WithSubject.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(Subject)
	return s, ok
}
