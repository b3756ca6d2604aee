// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package access

import (
	"context"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// MemoryUserRepository is an in-process UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[ulid.ULID]User
}

// Compile-time check.
var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[ulid.ULID]User)}
}

// Create stores a copy of user.
func (r *MemoryUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return errutil.InvalidArgument("username", "already taken")
		}
	}
	r.users[user.ID] = *user
	return nil
}

// Get returns a copy of the user with id.
func (r *MemoryUserRepository) Get(_ context.Context, id ulid.ULID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errutil.NotFound("user", id.String())
	}
	return &u, nil
}

// GetByUsername returns a copy of the user named username.
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, errutil.NotFound("user", username)
}
