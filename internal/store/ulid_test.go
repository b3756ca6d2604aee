// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package store_test

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetgov/tweetgov/internal/store"
)

func TestNullableULID(t *testing.T) {
	assert.Nil(t, store.NullableULID(nil))

	id := ulid.Make()
	got := store.NullableULID(&id)
	require.NotNil(t, got)
	assert.Equal(t, id.String(), *got)
}

func TestParseNullableULID(t *testing.T) {
	got, err := store.ParseNullableULID(nil, "approver_id")
	require.NoError(t, err)
	assert.Nil(t, got)

	id := ulid.Make()
	s := id.String()
	got, err = store.ParseNullableULID(&s, "approver_id")
	require.NoError(t, err)
	assert.Equal(t, id, *got)

	bad := "not-a-ulid"
	_, err = store.ParseNullableULID(&bad, "approver_id")
	assert.ErrorContains(t, err, "approver_id")
}

func TestConstraintViolations(t *testing.T) {
	unique := oops.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	fk := oops.Wrap(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	assert.True(t, store.IsUniqueViolation(unique))
	assert.False(t, store.IsUniqueViolation(fk))
	assert.True(t, store.IsForeignKeyViolation(fk))
	assert.False(t, store.IsForeignKeyViolation(assert.AnError))
}
