// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/store"
)

// PostgresStore persists entries in the audit_logs table. It always writes
// through its own pool so an entry never joins a caller's transaction.
type PostgresStore struct {
	pool store.Querier
}

// Compile-time checks.
var (
	_ Writer = (*PostgresStore)(nil)
	_ Reader = (*PostgresStore)(nil)
)

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(pool store.Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Write inserts entry.
func (s *PostgresStore) Write(ctx context.Context, entry Entry) error {
	var fields []byte
	if len(entry.Fields) > 0 {
		var err error
		if fields, err = json.Marshal(entry.Fields); err != nil {
			return oops.With("operation", "marshal audit fields").Wrap(err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_logs (level, category, source, message, fields, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		string(entry.Level),
		string(entry.Category),
		entry.Source,
		entry.Message,
		fields,
		entry.Timestamp,
	)
	if err != nil {
		return oops.With("operation", "insert audit entry").
			With("type", entry.Category).
			With("module", entry.Source).
			Wrap(err)
	}
	return nil
}

// List returns entries ordered by insertion.
func (s *PostgresStore) List(ctx context.Context, category *Category) ([]Entry, error) {
	const cols = `SELECT level, category, source, message, fields, logged_at FROM audit_logs`

	var (
		rows pgx.Rows
		err  error
	)
	if category == nil {
		rows, err = s.pool.Query(ctx, cols+` ORDER BY id`)
	} else {
		rows, err = s.pool.Query(ctx, cols+` WHERE category = $1 ORDER BY id`, string(*category))
	}
	if err != nil {
		return nil, oops.With("operation", "list audit entries").Wrap(err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			level, cat string
			fields     []byte
			loggedAt   time.Time
			e          Entry
		)
		if err := rows.Scan(&level, &cat, &e.Source, &e.Message, &fields, &loggedAt); err != nil {
			return nil, oops.With("operation", "scan audit entry").Wrap(err)
		}
		e.Level = Level(level)
		e.Category = Category(cat)
		e.Timestamp = loggedAt.UTC()
		if len(fields) > 0 {
			if err := json.Unmarshal(fields, &e.Fields); err != nil {
				return nil, oops.With("operation", "unmarshal audit fields").Wrap(err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate audit entries").Wrap(err)
	}
	return entries, nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }
