// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an append-only in-process Writer and Reader.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// Compile-time checks.
var (
	_ Writer = (*MemoryStore)(nil)
	_ Reader = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Write appends entry.
func (s *MemoryStore) Write(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // context errors pass through
	}
	entry.Fields = maps.Clone(entry.Fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List returns entries in write order.
func (s *MemoryStore) List(_ context.Context, category *Category) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if category != nil && e.Category != *category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
