// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Registry creates user accounts and records each sign-up in the access log.
type Registry struct {
	users  UserRepository
	access *audit.Logger
	logger *slog.Logger
}

// NewRegistry creates a Registry.
func NewRegistry(users UserRepository, sink *audit.Sink, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		users:  users,
		access: sink.For(audit.CategoryAccess, "users"),
		logger: logger,
	}
}

// Register stores u. A taken username fails with InvalidArgument; storage
// failures are reported as InternalError.
func (r *Registry) Register(ctx context.Context, u *User) error {
	if err := r.users.Create(ctx, u); err != nil {
		if errutil.IsExpected(err) {
			return err
		}
		return errutil.Internal(r.logger, "register user", err)
	}
	r.access.Info(ctx, fmt.Sprintf("User %s successfully signed up", u.Username),
		"user_id", u.ID.String(),
		"role", u.Role.String(),
	)
	return nil
}
