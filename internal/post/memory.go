// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// MemoryRepository is an in-process Repository. A single mutex serializes
// every mutation, which gives the same per-post ordering as a row lock.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[ulid.ULID]Post
}

// Compile-time check.
var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[ulid.ULID]Post)}
}

// Create stores a copy of p.
func (r *MemoryRepository) Create(_ context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.posts[p.ID]; exists {
		return errutil.InvalidState("post %s already exists", p.ID)
	}
	r.posts[p.ID] = *p
	return nil
}

// GetOwned returns a copy of the active post id owned by owner.
func (r *MemoryRepository) GetOwned(_ context.Context, owner, id ulid.ULID) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok || !p.Active || p.OwnerID != owner {
		return nil, errutil.NotFound("post", id.String())
	}
	return &p, nil
}

// Get returns a copy of the active post id.
func (r *MemoryRepository) Get(_ context.Context, id ulid.ULID) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok || !p.Active {
		return nil, errutil.NotFound("post", id.String())
	}
	return &p, nil
}

// ListByOwner returns owner's active posts, newest first.
func (r *MemoryRepository) ListByOwner(_ context.Context, owner ulid.ULID) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Post, 0)
	for _, p := range r.posts {
		if p.Active && p.OwnerID == owner {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Compare(out[j].ID) > 0
	})
	return out, nil
}

// UpdateData replaces the text of the matching active post.
func (r *MemoryRepository) UpdateData(_ context.Context, id ulid.ULID, owner *ulid.ULID, data string, at time.Time) error {
	return r.mutate(id, owner, func(p *Post) {
		p.Data = data
		p.ModifiedAt = later(p.ModifiedAt, at)
	})
}

// Deactivate clears Active on the matching active post.
func (r *MemoryRepository) Deactivate(_ context.Context, id ulid.ULID, owner *ulid.ULID, at time.Time) error {
	return r.mutate(id, owner, func(p *Post) {
		p.Active = false
		p.ModifiedAt = later(p.ModifiedAt, at)
	})
}

func (r *MemoryRepository) mutate(id ulid.ULID, owner *ulid.ULID, fn func(*Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || !p.Active || (owner != nil && p.OwnerID != *owner) {
		return errutil.NotFound("post", id.String())
	}
	fn(&p)
	r.posts[id] = p
	return nil
}

// later keeps modification times monotonic when the clock steps back.
func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
