// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// NullableULID converts an optional id to an SQL parameter. Nil stays NULL.
func NullableULID(id *ulid.ULID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// ParseULID parses a TEXT id column, naming the column on failure.
func ParseULID(s, column string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "parse "+column).With(column, s).Wrap(err)
	}
	return id, nil
}

// ParseNullableULID parses a nullable TEXT id column.
func ParseNullableULID(s *string, column string) (*ulid.ULID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := ParseULID(*s, column)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
