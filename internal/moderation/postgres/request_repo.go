// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

// Package postgres implements moderation.Repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tweetgov/tweetgov/internal/moderation"
	"github.com/tweetgov/tweetgov/internal/store"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

const requestColumns = `id, kind, post_id, requester_id, approver_id, old_data, proposed_data, status, created_at, decided_at`

// RequestRepository implements moderation.Repository using PostgreSQL.
type RequestRepository struct {
	pool store.Querier
}

// Compile-time check.
var _ moderation.Repository = (*RequestRepository)(nil)

// NewRequestRepository creates a new RequestRepository.
func NewRequestRepository(pool store.Querier) *RequestRepository {
	return &RequestRepository{pool: pool}
}

// Create inserts a pending request.
func (r *RequestRepository) Create(ctx context.Context, req *moderation.Request) error {
	_, err := store.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO moderation_requests (id, kind, post_id, requester_id, old_data, proposed_data, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, req.ID.String(), int16(req.Kind), req.PostID.String(), req.RequesterID.String(),
		req.OldData, req.ProposedData, string(req.Status), req.CreatedAt)
	if store.IsForeignKeyViolation(err) {
		return errutil.NotFound("post", req.PostID.String())
	}
	if err != nil {
		return oops.With("operation", "create moderation request").With("request_id", req.ID.String()).Wrap(err)
	}
	return nil
}

// Get returns request id.
func (r *RequestRepository) Get(ctx context.Context, id ulid.ULID) (*moderation.Request, error) {
	row := store.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+requestColumns+` FROM moderation_requests WHERE id = $1
	`, id.String())
	return one(row, "get moderation request", id)
}

// GetForUpdate returns request id and holds a row lock until the
// transaction in ctx ends. Outside a transaction the lock is released at once.
func (r *RequestRepository) GetForUpdate(ctx context.Context, id ulid.ULID) (*moderation.Request, error) {
	row := store.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+requestColumns+` FROM moderation_requests WHERE id = $1 FOR UPDATE
	`, id.String())
	return one(row, "lock moderation request", id)
}

// Save writes the decision of a request that is still pending.
func (r *RequestRepository) Save(ctx context.Context, req *moderation.Request) error {
	tag, err := store.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE moderation_requests SET status = $1, approver_id = $2, decided_at = $3
		WHERE id = $4 AND status = 'pending'
	`, string(req.Status), store.NullableULID(req.ApproverID), req.DecidedAt, req.ID.String())
	if err != nil {
		return oops.With("operation", "save moderation request").With("request_id", req.ID.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return errutil.InvalidState("moderation request %s is not pending", req.ID)
	}
	return nil
}

// ListByStatus returns requests in status, oldest first.
func (r *RequestRepository) ListByStatus(ctx context.Context, status moderation.Status) ([]*moderation.Request, error) {
	rows, err := store.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+requestColumns+` FROM moderation_requests
		WHERE status = $1
		ORDER BY created_at, id
	`, string(status))
	if err != nil {
		return nil, oops.With("operation", "list moderation requests").With("status", string(status)).Wrap(err)
	}
	defer rows.Close()

	out := make([]*moderation.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, oops.With("operation", "scan moderation request").Wrap(err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate moderation requests").Wrap(err)
	}
	return out, nil
}

func one(row pgx.Row, operation string, id ulid.ULID) (*moderation.Request, error) {
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errutil.NotFound("moderation request", id.String())
	}
	if err != nil {
		return nil, oops.With("operation", operation).With("request_id", id.String()).Wrap(err)
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*moderation.Request, error) {
	var (
		idStr, postStr, requesterStr string
		approverStr                  *string
		kind                         int16
		status                       string
		decidedAt                    *time.Time
		req                          moderation.Request
	)
	if err := row.Scan(&idStr, &kind, &postStr, &requesterStr, &approverStr,
		&req.OldData, &req.ProposedData, &status, &req.CreatedAt, &decidedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}

	var err error
	if req.ID, err = store.ParseULID(idStr, "id"); err != nil {
		return nil, err
	}
	if req.PostID, err = store.ParseULID(postStr, "post_id"); err != nil {
		return nil, err
	}
	if req.RequesterID, err = store.ParseULID(requesterStr, "requester_id"); err != nil {
		return nil, err
	}
	if req.ApproverID, err = store.ParseNullableULID(approverStr, "approver_id"); err != nil {
		return nil, err
	}
	req.Kind = moderation.Kind(kind)
	req.Status = moderation.Status(status)
	req.CreatedAt = req.CreatedAt.UTC()
	if decidedAt != nil {
		t := decidedAt.UTC()
		req.DecidedAt = &t
	}
	return &req, nil
}
