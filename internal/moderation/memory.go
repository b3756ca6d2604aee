// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package moderation

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	requests map[ulid.ULID]*Request
}

// Compile-time check.
var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{requests: make(map[ulid.ULID]*Request)}
}

// Create stores a copy of r.
func (m *MemoryRepository) Create(_ context.Context, r *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.requests[r.ID]; exists {
		return errutil.InvalidState("moderation request %s already exists", r.ID)
	}
	m.requests[r.ID] = r.clone()
	return nil
}

// Get returns a copy of request id.
func (m *MemoryRepository) Get(_ context.Context, id ulid.ULID) (*Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, errutil.NotFound("moderation request", id.String())
	}
	return r.clone(), nil
}

// GetForUpdate is Get. Locking comes from MemoryTransactor.
func (m *MemoryRepository) GetForUpdate(ctx context.Context, id ulid.ULID) (*Request, error) {
	return m.Get(ctx, id)
}

// Save stores r's decision if the stored request is still pending.
func (m *MemoryRepository) Save(_ context.Context, r *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[r.ID]
	if !ok {
		return errutil.NotFound("moderation request", r.ID.String())
	}
	if stored.Status != StatusPending {
		return errutil.InvalidState("moderation request %s is already %s", r.ID, stored.Status)
	}
	m.requests[r.ID] = r.clone()
	return nil
}

// ListByStatus returns copies of the requests in status, oldest first.
func (m *MemoryRepository) ListByStatus(_ context.Context, status Status) ([]*Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Request, 0)
	for _, r := range m.requests {
		if r.Status == status {
			out = append(out, r.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out, nil
}

// MemoryTransactor serializes transactions with a mutex. It provides no
// rollback: a failing fn must not have written anything it wants undone.
// Processor.Decide only saves after every fallible step has succeeded.
type MemoryTransactor struct {
	mu sync.Mutex
}

// Compile-time check.
var _ Transactor = (*MemoryTransactor)(nil)

// InTransaction runs fn while holding the transactor lock.
func (t *MemoryTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
